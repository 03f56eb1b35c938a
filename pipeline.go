package xbouncing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

func (l *Library) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, errors.New("not a directory")
	}

	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, but not the base itself
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || filepath.Ext(file) != extension {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (l *Library) parseWorker(ctx context.Context, in <-chan string) (<-chan *logo, <-chan error, error) {
	out := make(chan *logo)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			lg, err := l.parseFile(file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- lg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

func (l *Library) storeWorker(ctx context.Context, in <-chan *logo) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for lg := range in {
			if _, err := l.store.add(lg); err != nil {
				errc <- err
				return
			}
			l.logger.Printf("Imported \"%s\" (%dx%d)\n", lg.name, lg.bitmap.Width, lg.bitmap.Height)
			lg.bitmap.Release()
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeLogos(ctx context.Context, cs ...<-chan *logo) <-chan *logo {
	var wg sync.WaitGroup
	out := make(chan *logo)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan *logo) {
			defer wg.Done()
			for n := range c {
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ImportDir walks path and imports every XBM file found. Files are parsed
// concurrently but written to the store one at a time.
func (l *Library) ImportDir(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var logos []<-chan *logo
	for i := 0; i < runtime.NumCPU(); i++ {
		out, errc, err := l.parseWorker(ctx, files)
		if err != nil {
			return err
		}
		logos = append(logos, out)
		errcList = append(errcList, errc)
	}

	errc, err = l.storeWorker(ctx, mergeLogos(ctx, logos...))
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
