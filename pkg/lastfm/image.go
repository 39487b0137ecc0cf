package lastfm

// imagePreference lists sizes from most to least preferred.
var imagePreference = []string{"extralarge", "large", "medium", "small"}

// BestImage returns the URL of the largest useful image in images.
// It prefers extralarge, then large, medium and small, and otherwise
// falls back to the last non-empty URL. Returns "" when none is usable.
func BestImage(images []Image) string {
	bySize := make(map[string]string, len(images))
	for _, img := range images {
		if img.URL != "" {
			bySize[img.Size] = img.URL
		}
	}
	for _, size := range imagePreference {
		if u, ok := bySize[size]; ok {
			return u
		}
	}
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL
		}
	}
	return ""
}
