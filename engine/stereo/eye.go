package stereo

// Eye identifies one half of a left/right stereo pair.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

// Eyes lists both eyes in render order.
var Eyes = [2]Eye{EyeLeft, EyeRight}

func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return "unknown"
	}
}
