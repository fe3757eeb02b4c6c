package receipts

import (
	"fmt"
	"strings"

	"weighbridge/models"
)

// EditorData feeds the weighbridge editor page.
type EditorData struct {
	Current     models.Receipt
	Saved       []models.Receipt
	Query       string
	Status      string
	Error       string
	NegativeNet bool
}

// DeletePrompt is the pending half of the two-phase delete: the record to
// remove plus the question put to the operator. Keeping it a plain value
// lets the decision logic be tested without any UI.
type DeletePrompt struct {
	ID      int64
	Message string
}

// BuildDeletePrompt describes what a confirmed delete would remove.
func BuildDeletePrompt(rec models.Receipt) DeletePrompt {
	rst := strings.TrimSpace(rec.RSTNo)
	if rst == "" {
		rst = "(no RST)"
	}
	vehicle := strings.TrimSpace(rec.VehicleNo)
	if vehicle == "" {
		vehicle = "(no vehicle)"
	}
	return DeletePrompt{
		ID:      rec.ID,
		Message: fmt.Sprintf("Delete receipt RST %s for vehicle %s? This cannot be undone.", rst, vehicle),
	}
}

// ExportFileName names the downloaded PDF: Receipt_<rst>_<vehicle>.pdf with
// placeholders for blank fields.
func ExportFileName(rec models.Receipt) string {
	rst := sanitizeFilePart(rec.RSTNo)
	if rst == "" {
		rst = "NoRST"
	}
	vehicle := sanitizeFilePart(rec.VehicleNo)
	if vehicle == "" {
		vehicle = "NoVehicle"
	}
	return fmt.Sprintf("Receipt_%s_%s.pdf", rst, vehicle)
}

func sanitizeFilePart(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
