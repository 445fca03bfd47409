package domain

// JournalFile is one scraped output file read back from disk. ID is the file
// name without its extension and identifies the journal downstream.
type JournalFile struct {
	ID       string
	Path     string
	Editions []Edition
}
