package actions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/emrergn-hash/excel-commander/pkg/commander/api"
	"github.com/emrergn-hash/excel-commander/pkg/commander/render"
)

// DefaultTitle is used when no presentation title is given.
const DefaultTitle = "Analiz Raporu"

// User-facing error messages.
const (
	msgHostUnavailable  = "Excel bağlantısı yok. Lütfen bir çalışma kitabı açın."
	msgNotAFormula      = "Lütfen formül içeren bir hücre seçin (= ile başlamalı)."
	msgNoData           = "Seçili aralıkta veri yok."
	msgNotEnoughRows    = "Sunum için başlık satırı ve en az bir veri satırı seçin."
	msgConnectionPrefix = "Bağlantı hatası: "
)

// HandleCommand reads free-text input and turns it into a formula.
// Empty or whitespace-only input is a no-op: no call, no output change.
// On success the formula is written into the active cell when a host is ready.
func (s *Session) HandleCommand(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	s.status.SetLoading(true)
	defer s.status.SetLoading(false)

	resp, err := s.client.GenerateFormula(ctx, api.FormulaRequest{
		Description: text,
		Language:    s.cfg.Language,
	})
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !resp.Success {
		s.renderError(resp.Error)
		return nil
	}

	s.panel.Set(render.Render(render.KindFormula, resp.Formula, resp.Explanation))

	if s.HostReady() {
		if err := s.bridge.WriteActiveCell(ctx, resp.Formula); err != nil {
			s.renderError(msgConnectionPrefix + err.Error())
			return nil
		}
		if err := s.bridge.Flush(ctx); err != nil {
			s.renderError(msgConnectionPrefix + err.Error())
			return nil
		}
		s.log.Info("formula written to active cell", zap.String("formula", resp.Formula))
	}
	return nil
}

// GenerateFormula is the button counterpart of the free-text command box.
func (s *Session) GenerateFormula(ctx context.Context, description string) error {
	return s.HandleCommand(ctx, description)
}

// ExplainFormula explains the formula in the active cell.
// The cell text must start with the formula marker; otherwise no call is made.
func (s *Session) ExplainFormula(ctx context.Context) error {
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	if !s.HostReady() {
		s.renderError(msgHostUnavailable)
		return nil
	}

	s.status.SetLoading(true)
	defer s.status.SetLoading(false)

	formula, err := s.bridge.ActiveCell(ctx)
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !strings.HasPrefix(formula, "=") {
		s.renderError(msgNotAFormula)
		return nil
	}

	resp, err := s.client.ExplainFormula(ctx, api.ExplainRequest{
		Formula:  formula,
		Language: s.cfg.Language,
	})
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !resp.Success {
		s.renderError(resp.Error)
		return nil
	}

	s.panel.Set(render.Render(render.KindExplanation, resp.Explanation, ""))
	return nil
}

// CleanData sends the selected grid to the cleaning endpoint and writes the
// cleaned grid back over the same selection.
func (s *Session) CleanData(ctx context.Context, instructions string) error {
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	if !s.HostReady() {
		s.renderError(msgHostUnavailable)
		return nil
	}

	s.status.SetLoading(true)
	defer s.status.SetLoading(false)

	grid, err := s.bridge.SelectedRange(ctx)
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !grid.HasData() {
		s.renderError(msgNoData)
		return nil
	}

	resp, err := s.client.CleanData(ctx, api.CleanDataRequest{
		Data:         grid,
		Instructions: instructions,
	})
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !resp.Success {
		s.renderError(resp.Error)
		return nil
	}

	if err := s.bridge.WriteSelectedRange(ctx, resp.CleanedData); err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if err := s.bridge.Flush(ctx); err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}

	changes := len(resp.ChangesMade)
	body := fmt.Sprintf("<p>%d değişiklik yapıldı.</p>", changes)
	s.panel.Set(render.Render(render.KindSuccess, "Veriler temizlendi", body))
	s.log.Info("data cleaned", zap.Int("changes", changes))
	return nil
}

// SlideOptions configures presentation generation. Zero values fall back to
// the fixed defaults: title "Analiz Raporu", 3 insights, bar chart included.
type SlideOptions struct {
	Title        string
	Insights     int
	IncludeChart bool
	ChartType    api.ChartType
	// DownloadDir, when set, fetches the generated file there.
	DownloadDir string
}

// DefaultSlideOptions returns the fixed defaults the task pane uses.
func DefaultSlideOptions() SlideOptions {
	return SlideOptions{
		Title:        DefaultTitle,
		Insights:     3,
		IncludeChart: true,
		ChartType:    api.ChartBar,
	}
}

// GenerateSlide builds a presentation from the selected grid. The selection
// needs a header row plus at least one data row.
func (s *Session) GenerateSlide(ctx context.Context, opts SlideOptions) error {
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	if !s.HostReady() {
		s.renderError(msgHostUnavailable)
		return nil
	}

	s.status.SetLoading(true)
	defer s.status.SetLoading(false)

	grid, err := s.bridge.SelectedRange(ctx)
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if len(grid) < 2 {
		s.renderError(msgNotEnoughRows)
		return nil
	}

	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = DefaultTitle
	}
	if opts.Insights == 0 {
		opts.Insights = 3
	}
	if opts.ChartType == "" {
		opts.ChartType = api.ChartBar
	}

	resp, err := s.client.GeneratePresentation(ctx, api.PresentationRequest{
		Data:          grid,
		Title:         opts.Title,
		InsightsCount: opts.Insights,
		IncludeChart:  opts.IncludeChart,
		ChartType:     opts.ChartType,
	})
	if err != nil {
		s.renderError(msgConnectionPrefix + err.Error())
		return nil
	}
	if !resp.Success {
		s.renderError(resp.Error)
		return nil
	}

	body := render.SlideBody(s.client.DownloadURL(resp.FileURL), resp.Insights)
	s.panel.Set(render.Render(render.KindSuccess, "Sunum hazır", body))

	if opts.DownloadDir != "" {
		dest, err := s.client.Download(ctx, resp.FileURL, opts.DownloadDir)
		if err != nil {
			s.log.Warn("presentation download failed", zap.Error(err))
		} else {
			s.log.Info("presentation saved", zap.String("path", dest))
		}
	}
	return nil
}

// ShowHelp renders the static instructional panel. It is synchronous, makes
// no network or selection access and does not take the in-flight slot.
func (s *Session) ShowHelp() {
	s.panel.Set(render.Help())
}
