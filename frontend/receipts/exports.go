package receipts

import (
	"encoding/csv"
	"io"

	"weighbridge/models"
)

// writeReceiptsCSV streams the saved collection in stored order.
func writeReceiptsCSV(w io.Writer, receipts []models.Receipt) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"rst_no", "vehicle_no", "customer", "supplier", "material",
		"gross_kg", "tare_kg", "net_kg", "date_in", "time_in", "date_out", "time_out", "charges", "remarks"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range receipts {
		record := []string{
			rec.RSTNo,
			rec.VehicleNo,
			rec.Customer,
			rec.Supplier,
			rec.Material,
			FormatWeight(rec.GrossWeight),
			FormatWeight(rec.TareWeight),
			FormatWeight(rec.NetWeight),
			FormatDate(rec.DateTimeIn),
			FormatTime(rec.DateTimeIn),
			FormatDate(rec.DateTimeOut),
			FormatTime(rec.DateTimeOut),
			rec.Charges.StringFixed(2),
			rec.Remarks,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
