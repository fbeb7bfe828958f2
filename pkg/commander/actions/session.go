// Package actions implements the task-pane action set: formula generation,
// formula explanation, data cleaning, slide generation and the help panel.
// Each action is one linear round trip: check preconditions, optionally read
// the selection, make one service call, optionally write back, render one
// output fragment.
package actions

import (
	"errors"

	"go.uber.org/zap"

	"github.com/emrergn-hash/excel-commander/pkg/commander/api"
	"github.com/emrergn-hash/excel-commander/pkg/commander/config"
	"github.com/emrergn-hash/excel-commander/pkg/commander/host"
	"github.com/emrergn-hash/excel-commander/pkg/commander/render"
)

// ErrBusy indicates another action currently holds the in-flight slot.
// The rejected action must not touch loading or panel state.
var ErrBusy = errors.New("another action is in flight")

// Status receives loading and connection state changes.
type Status interface {
	SetLoading(on bool)
	SetConnection(state string)
}

// NopStatus discards all status updates.
type NopStatus struct{}

func (NopStatus) SetLoading(bool)      {}
func (NopStatus) SetConnection(string) {}

// Session carries everything an action needs: configuration, the service
// client, the host bridge (nil when no host was detected at startup), the
// output panel and the status sink. One action runs at a time; the in-flight
// slot rejects overlapping invocations.
type Session struct {
	cfg    config.Config
	client *api.Client
	bridge host.Bridge
	panel  *render.Panel
	status Status
	log    *zap.Logger

	inflight chan struct{}
}

// NewSession builds a session. bridge may be nil for a host-less session;
// selection-dependent actions then render a host-unavailable error.
func NewSession(cfg config.Config, client *api.Client, bridge host.Bridge, panel *render.Panel, status Status, log *zap.Logger) *Session {
	if status == nil {
		status = NopStatus{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if panel == nil {
		panel = render.NewPanel()
	}
	return &Session{
		cfg:      cfg,
		client:   client,
		bridge:   bridge,
		panel:    panel,
		status:   status,
		log:      log,
		inflight: make(chan struct{}, 1),
	}
}

// HostReady reports whether a host workbook was detected at startup.
func (s *Session) HostReady() bool {
	return s.bridge != nil
}

// Panel returns the session's output panel.
func (s *Session) Panel() *render.Panel {
	return s.panel
}

// acquire takes the single in-flight slot without blocking.
func (s *Session) acquire() bool {
	select {
	case s.inflight <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Session) release() {
	<-s.inflight
}

// renderError shows an error fragment and logs it.
func (s *Session) renderError(msg string) {
	s.log.Warn("action failed", zap.String("error", msg))
	s.panel.Set(render.Render(render.KindError, msg, ""))
}
