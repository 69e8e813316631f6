package images

import (
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ThumbWidth is the rendered width of cover thumbnails; height follows the
// source aspect ratio.
const ThumbWidth = 320

// EnsureThumbnail regenerates dstPath from srcPath when it is missing or
// older than the source. Returns true when a thumbnail was (re)written. The
// output format follows dstPath's extension.
func EnsureThumbnail(srcPath, dstPath string, width int) (bool, error) {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return false, err
	}
	if dstInfo, err := os.Stat(dstPath); err == nil {
		if !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return false, nil
		}
	}

	img, err := imaging.Open(srcPath)
	if err != nil {
		return false, err
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return false, err
	}
	if err := imaging.Save(thumb, dstPath); err != nil {
		return false, err
	}
	return true, nil
}
