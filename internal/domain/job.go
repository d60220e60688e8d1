package domain

type Job struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"companyHandle"`
}

// JobFilter narrows job listings. Zero values disable a criterion.
type JobFilter struct {
	Title     string
	MinSalary int
	HasEquity bool
}
