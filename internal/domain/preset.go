package domain

// TicketPreset is a named, pre-stored filter expression used for dashboard
// counts. Presets are managed elsewhere; the engine only reads them.
type TicketPreset struct {
	ID          int64
	Name        string
	Description *string
	Color       string
	Filter      string
	Main        bool
}
