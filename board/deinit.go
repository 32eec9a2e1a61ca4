package board

import (
	"errors"

	"audioboard-go/audiohal"
	"audioboard-go/errcode"
)

// Board components reported by Deinit.
const (
	ComponentCodec = "codec"
	ComponentADC   = "adc"
)

// Outcome is the result of releasing one component.
type Outcome struct {
	Component string
	Err       error
}

// DeinitResult lists every component Deinit touched, in order.
type DeinitResult struct {
	Outcomes []Outcome
}

// OK reports whether every component released cleanly.
func (r DeinitResult) OK() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Err joins the failures, each prefixed by its component.
func (r DeinitResult) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, errcode.Wrap(errcode.DriverDeinit, o.Component+"_deinit", o.Err))
		}
	}
	return errors.Join(errs...)
}

// Status collapses the result to a single code.
func (r DeinitResult) Status() errcode.Code {
	if r.OK() {
		return errcode.OK
	}
	return errcode.Error
}

// Failed names the components whose release failed.
func (r DeinitResult) Failed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o.Component)
		}
	}
	return out
}

// Deinit releases both codecs of h and forgets the stored handle when h is
// it. Both codecs are always attempted.
func (m *Manager) Deinit(h *Handle) DeinitResult {
	if h == nil {
		return DeinitResult{Outcomes: []Outcome{{Component: "board", Err: errcode.InvalidParams}}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	res := DeinitResult{Outcomes: []Outcome{
		{Component: ComponentCodec, Err: release(h.Codec)},
		{Component: ComponentADC, Err: release(h.ADC)},
	}}
	if m.handle == h {
		m.handle = nil
	}
	if !res.OK() {
		log.Errorf("board deinit: %v", res.Err())
	}
	return res
}

func release(h *audiohal.Handle) error {
	if h == nil {
		return errcode.NotInitialized
	}
	return h.Deinit()
}
