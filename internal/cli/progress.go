package cli

import (
	"sync"

	pb "github.com/cheggaaa/pb/v3"
)

// progressBar adapts a terminal progress bar to the transfer progress
// interface.
type progressBar struct {
	bar  *pb.ProgressBar
	once sync.Once
	mu   sync.Mutex
}

func newProgressBar(prefix string) *progressBar {
	bar := pb.New(0)
	bar.Set(pb.Bytes, true)
	tmp := `{{string . "prefix"}}{{counters . }} {{bar . "[" "=" ">" "-" "]"}} {{percent . }} {{etime . }}{{string . "suffix"}}`
	bar.SetTemplate(pb.ProgressBarTemplate(tmp))
	bar.Set("prefix", prefix+" ")
	return &progressBar{bar: bar}
}

// Update is called as bytes complete, with cumulative progress.
func (p *progressBar) Update(bytesTransferred, totalBytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.SetTotal(totalBytes)
	p.bar.SetCurrent(bytesTransferred)
	p.once.Do(func() {
		p.bar.Start()
	})
	p.bar.Write()
}

// Complete finishes the bar.
func (p *progressBar) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar.IsStarted() {
		p.bar.Finish()
	}
}

// Error keeps the bar quiet on failure; errors are reported after the run.
func (p *progressBar) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar.IsStarted() {
		p.bar.Finish()
	}
}
