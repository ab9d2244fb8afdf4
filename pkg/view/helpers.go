package view

// PagesTotal returns the number of pages for total rows, at least 1.
func PagesTotal(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func PtrStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
