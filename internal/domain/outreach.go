package domain

// University is one configured faculty directory to scan.
type University struct {
	Name         string
	DirectoryURL string
}

// UserProfile holds the fields derived once from the resume.
// It is read-only for every downstream stage.
type UserProfile struct {
	Name           string
	University     string
	Major          string
	Email          string
	GraduationYear string
	Skills         []string
	ResumeText     string
}

// TopSkills returns up to n skills in resume order.
func (p UserProfile) TopSkills(n int) []string {
	if n > len(p.Skills) {
		n = len(p.Skills)
	}
	return p.Skills[:n]
}

// ProfessorCandidate is a directory hit awaiting enrichment.
type ProfessorCandidate struct {
	Name       string
	ProfileURL string
}

// ProfessorRecord is one finished row of the outreach table.
type ProfessorRecord struct {
	University    string
	Professor     string
	ProfileURL    string
	ResearchFocus string
	EmailDraft    string
}

// ResultTable accumulates records in processing order. Rows are only
// ever appended; the final state is exactly the CSV row set.
type ResultTable struct {
	records []ProfessorRecord
}

// Append adds a finished record to the table.
func (t *ResultTable) Append(rec ProfessorRecord) {
	t.records = append(t.records, rec)
}

// Records returns the accumulated rows in insertion order.
func (t *ResultTable) Records() []ProfessorRecord {
	return t.records
}

// Len reports how many rows were collected.
func (t *ResultTable) Len() int {
	return len(t.records)
}
