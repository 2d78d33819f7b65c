package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Run reads commands from in until quit, end of input or ctx cancellation.
// Whatever way the loop ends, the session is terminated before Run returns,
// using a context that outlives the cancellation. A reader blocked in Read
// is abandoned rather than interrupted.
func (s *Shell) Run(ctx context.Context, in io.Reader) (err error) {
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for !s.done {
		fmt.Fprint(s.out, s.session.Prompt())
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.logger.InfoContext(ctx, "interrupted, closing session")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read command: %w", err)
					}
				default:
				}
				return nil
			}
			s.Execute(ctx, line)
		}
	}
	return nil
}
