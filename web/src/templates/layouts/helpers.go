package layouts

// CalculateTitle builds the document title from a page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - STUCRUUM"
	}
	return "STUCRUUM"
}
