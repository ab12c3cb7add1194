package sink

import "costeo/ingesta/internal/models"

// InvoiceWrite captures one WriteInvoice call.
type InvoiceWrite struct {
	DocumentID string
	Invoice    models.CanonicalInvoice
	Items      []ResolvedItem
}

// MemorySink collects writes in memory for tests. Err, when set, is
// returned by every write to exercise persistence-failure paths.
type MemorySink struct {
	Records  map[string][]models.ParsedRecord
	Invoices []InvoiceWrite
	Err      error
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Records: map[string][]models.ParsedRecord{}}
}

func (s *MemorySink) WriteRecords(documentID string, records []models.ParsedRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.Records[documentID] = append(s.Records[documentID], records...)
	return nil
}

func (s *MemorySink) WriteInvoice(documentID string, invoice models.CanonicalInvoice, items []ResolvedItem) error {
	if s.Err != nil {
		return s.Err
	}
	s.Invoices = append(s.Invoices, InvoiceWrite{DocumentID: documentID, Invoice: invoice, Items: items})
	return nil
}
