package sheet

// Record is one item to print. SerialNumber is the barcode payload; the two
// category fields are printed as caption lines beneath it.
type Record struct {
	SerialNumber string `json:"serialNumber"`
	Category     string `json:"category"`
	SubCategory  string `json:"subCategory"`
}

// Serials returns the serial numbers of records in input order.
func Serials(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SerialNumber
	}
	return out
}
