package board

import (
	"audioboard-go/periph"
	"audioboard-go/periph/adcbutton"
	"audioboard-go/types"
)

// ButtonPressHandler logs button events and the action each button stands
// for. It has the periph.Callback signature.
func ButtonPressHandler(ev periph.Event, _ any) {
	be, ok := ev.Data.(adcbutton.ButtonEvent)
	if !ok {
		log.Warnf("Unknown event from %s: %s", ev.Source, ev.Kind)
		return
	}
	switch ev.Kind {
	case adcbutton.EventPressed:
		log.Infof("Button pressed, ID: %d", be.ActID)
	case adcbutton.EventReleased:
		log.Infof("Button released, ID: %d", be.ActID)
	case adcbutton.EventLongPressed:
		log.Infof("Button long pressed, ID: %d", be.ActID)
	case adcbutton.EventLongReleased:
		log.Infof("Button long released, ID: %d", be.ActID)
	default:
		log.Infof("Unknown button event")
	}

	id := types.ButtonID(be.ActID)
	if id.Action() == types.ActionUnknown {
		log.Infof("Unknown button ID")
		return
	}
	log.Infof("%s button pressed", id.Action().Label())
}
