package dto

type Filter struct {
	Limit  int    `query:"limit"`
	Page   int    `query:"page"`
	Status string `query:"status"`
	Q      string `query:"q"`
}

// Normalize clamps paging values to usable defaults.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
