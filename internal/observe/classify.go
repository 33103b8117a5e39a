package observe

// Linux input event types and codes (linux/input-event-codes.h).
const (
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03

	relX        = 0x00
	relY        = 0x01
	relHWheel   = 0x06
	relWheel    = 0x08
	relWheelHi  = 0x0b
	relHWheelHi = 0x0c
	btnMisc     = 0x100
	keyOK       = 0x160
	keyReleased = 0
	keyPressed  = 1
	keyRepeat   = 2
)

// classify maps a raw evdev record to an Event. Synchronization and other
// unrelated records return ok=false.
func classify(typ, code uint16, value int32) (Event, bool) {
	switch typ {
	case evRel:
		switch code {
		case relX, relY:
			return Event{Kind: KindMove}, true
		case relWheel, relHWheel, relWheelHi, relHWheelHi:
			return Event{Kind: KindScroll}, true
		}
		return Event{}, false
	case evAbs:
		return Event{Kind: KindMove}, true
	case evKey:
		if code >= btnMisc && code < keyOK {
			return Event{Kind: KindButton, Pressed: value == keyPressed}, true
		}
		return Event{Kind: KindKey, Pressed: value == keyPressed || value == keyRepeat}, true
	}
	return Event{}, false
}
