package api

// ChartType identifies a slide layout for generated presentations.
type ChartType string

const (
	ChartTitle        ChartType = "title"
	ChartBulletPoints ChartType = "bullet_points"
	ChartBar          ChartType = "chart_bar"
	ChartLine         ChartType = "chart_line"
	ChartPie          ChartType = "chart_pie"
	ChartTwoColumn    ChartType = "two_column"
)

// ValidChartType reports whether t is one of the layouts the service accepts.
func ValidChartType(t ChartType) bool {
	switch t {
	case ChartTitle, ChartBulletPoints, ChartBar, ChartLine, ChartPie, ChartTwoColumn:
		return true
	}
	return false
}

// FormulaRequest asks the service to generate an Excel formula from a
// natural-language description.
type FormulaRequest struct {
	Description string `json:"description"`
	// Context optionally describes the surrounding data.
	Context  string `json:"context,omitempty"`
	Language string `json:"language"`
}

// FormulaResponse is the service answer for formula generation.
// Formula and Explanation are only meaningful when Success is true.
type FormulaResponse struct {
	Success     bool   `json:"success"`
	Formula     string `json:"formula,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ExplainRequest asks the service to explain an existing formula.
type ExplainRequest struct {
	Formula  string `json:"formula"`
	Language string `json:"language"`
}

// ExplainResponse is the service answer for formula explanation.
type ExplainResponse struct {
	Success     bool   `json:"success"`
	Explanation string `json:"explanation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CleanDataRequest carries a rectangular grid of cell values to clean.
type CleanDataRequest struct {
	Data [][]any `json:"data"`
	// Instructions optionally narrows the cleaning operations.
	Instructions string `json:"instructions,omitempty"`
}

// CleanDataResponse returns the cleaned grid and a description of each change.
type CleanDataResponse struct {
	Success     bool     `json:"success"`
	CleanedData [][]any  `json:"cleaned_data,omitempty"`
	ChangesMade []string `json:"changes_made,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// PresentationRequest asks the service to build a PowerPoint from grid data.
// Data must include a header row.
type PresentationRequest struct {
	Data          [][]any   `json:"data"`
	Title         string    `json:"title"`
	InsightsCount int       `json:"insights_count"`
	IncludeChart  bool      `json:"include_chart"`
	ChartType     ChartType `json:"chart_type"`
}

// PresentationResponse returns the generated file location and insight texts.
// FileURL is a path relative to the service base URL.
type PresentationResponse struct {
	Success  bool     `json:"success"`
	FileURL  string   `json:"file_url,omitempty"`
	Insights []string `json:"insights,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// HealthResponse is the service root health payload.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	AIConfigured bool   `json:"ai_configured"`
}
