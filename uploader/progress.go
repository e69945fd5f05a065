package uploader

import (
	"io"
	"math"
)

// ProgressFunc receives the cumulative bytes sent out of total.
type ProgressFunc func(loaded, total int64)

type progressReader struct {
	r          io.Reader
	loaded     int64
	total      int64
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress ProgressFunc) io.Reader {
	if onProgress == nil {
		return r
	}
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		p.onProgress(p.loaded, p.total)
	}
	return n, err
}

// Percent rounds loaded/total to a whole percentage clamped to [0, 100].
func Percent(loaded, total int64) int {
	if total <= 0 {
		return 100
	}
	pct := int(math.Round(float64(loaded) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
