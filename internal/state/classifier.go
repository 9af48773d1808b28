package state

// MessageType tags one inbound update with the payload kind that drives
// per-state gating.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeLocation MessageType = "location"
	TypePhoto    MessageType = "photo"
	TypeAudio    MessageType = "audio"
	TypeVideo    MessageType = "video"
	TypeDocument MessageType = "document"
	TypeCallback MessageType = "callback"
	TypeUnknown  MessageType = "unknown"
)

// Location carries the coordinates of a shared location.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Update is the classifier's view of one inbound event: a tagged union of
// the payload fields the bot reacts to. Transport framing stays outside.
type Update struct {
	Text     string
	Location *Location
	Photo    bool
	Audio    bool
	Video    bool
	Document bool

	// Callback is set when the update is a callback button press;
	// CallbackData carries its raw payload (may be empty).
	Callback     bool
	CallbackData string
}

// Classify returns exactly one message type for the update, using
// first-match precedence over payload fields: text, location, photo,
// audio, video, document, callback. Anything else is unknown.
func Classify(u Update) MessageType {
	switch {
	case u.Text != "":
		return TypeText
	case u.Location != nil:
		return TypeLocation
	case u.Photo:
		return TypePhoto
	case u.Audio:
		return TypeAudio
	case u.Video:
		return TypeVideo
	case u.Document:
		return TypeDocument
	case u.Callback:
		return TypeCallback
	default:
		return TypeUnknown
	}
}
