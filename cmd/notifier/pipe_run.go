package main

import (
	"bufio"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/notifier/internal/host"
	"github.com/jmylchreest/notifier/internal/notifier"
)

const lingerPoll = 250 * time.Millisecond

// pipe shows notifications for lines read from an input stream.
type pipe struct {
	n   *notifier.Notifier
	out *lockedWriter

	wg    sync.WaitGroup
	shown atomic.Int64
}

// consume reads lines until EOF or ctx is done. It reports whether ctx
// ended the input.
func (p *pipe) consume(ctx context.Context, r io.Reader) bool {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("failed to read input", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return true
		case line, ok := <-lines:
			if !ok {
				return ctx.Err() != nil
			}
			p.handle(line)
		}
	}
}

func (p *pipe) handle(line string) {
	req, err := parsePipeLine(line)
	if err != nil {
		logger.Warn("skipping input line", "error", err)
		return
	}
	if req == nil {
		return
	}
	if req.DismissAll {
		p.n.DismissAll()
		return
	}

	opts, err := req.options()
	if err != nil {
		logger.Warn("skipping input line", "title", req.Title, "error", err)
		return
	}

	p.wg.Add(1)
	cbs := notifier.Callbacks{
		OnClose: func(h host.Handle) { logger.Debug("notification closed", "id", h.ID()) },
	}
	p.n.Show(req.Title, opts, cbs).Subscribe(func(h host.Handle, err error) {
		defer p.wg.Done()
		if err != nil || h == nil {
			return
		}
		p.shown.Add(1)
		p.out.Println(h.ID())
	})
}

// linger blocks until no notification is tracked any more or ctx is done.
func (p *pipe) linger(ctx context.Context) {
	ticker := time.NewTicker(lingerPoll)
	defer ticker.Stop()

	for len(p.n.Active()) > 0 {
		select {
		case <-ctx.Done():
			p.n.DismissAll()
			return
		case <-ticker.C:
		}
	}
}
