// Package gallery lists slideshow photos named {order}_{durationMs}.{ext}.
package gallery

import (
	"fmt"
	"log"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
)

var photoName = regexp.MustCompile(`(?i)^(\d+)_(\d+)\.(png|jpe?g)$`)

// Image is one slide.
type Image struct {
	Order    int    `json:"order"`
	Duration int    `json:"duration"` // milliseconds
	URL      string `json:"url"`
}

// List reads dir and returns its photos sorted by order. urlPrefix is the
// path the directory is served under. Files that do not follow the naming
// convention are skipped.
func List(dir, urlPrefix string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read photo directory: %w", err)
	}

	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		img, ok := parse(e.Name(), urlPrefix)
		if !ok {
			if photoExt(e.Name()) {
				log.Printf("WARN: skipping photo with unexpected name %q", e.Name())
			}
			continue
		}
		images = append(images, img)
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Order < images[j].Order
	})
	return images, nil
}

func parse(name, urlPrefix string) (Image, bool) {
	m := photoName.FindStringSubmatch(name)
	if m == nil {
		return Image{}, false
	}
	order, err := strconv.Atoi(m[1])
	if err != nil {
		return Image{}, false
	}
	duration, err := strconv.Atoi(m[2])
	if err != nil {
		return Image{}, false
	}
	return Image{
		Order:    order,
		Duration: duration,
		URL:      path.Join(urlPrefix, name),
	}, true
}

var anyPhoto = regexp.MustCompile(`(?i)\.(png|jpe?g)$`)

func photoExt(name string) bool {
	return anyPhoto.MatchString(name)
}
