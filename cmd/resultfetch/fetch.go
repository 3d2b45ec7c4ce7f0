package main

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raysh454/resultfetch/internal/fetchclient"
	"github.com/raysh454/resultfetch/internal/logging"
	"github.com/raysh454/resultfetch/internal/result"
	"github.com/raysh454/resultfetch/internal/webclient"
)

func (c *cli) bodyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "body [url...]",
		Short: "Fetch and print response bodies",
		Long: `Issues one GET per URL and prints each response body.
Any response counts as success; only transport failures are errors.
Without arguments ` + defaultURL + ` is fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetches(cmd.OutOrStdout(), targets(args), func(fc *fetchclient.Client, url string, out *syncWriter) error {
				return await(func(done func(result.Result[[]byte])) error {
					return fc.FetchBody(url, done)
				}, func(body []byte) {
					out.write(func(w io.Writer) {
						fmt.Fprintf(w, "== %s (%d bytes)\n%s\n", url, len(body), body)
					})
				})
			})
		},
	}
	cmd.Flags().IntVarP(&c.concurrency, "concurrency", "c", 4, "fetches awaited at once")
	return cmd
}

func (c *cli) cookiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookies [url...]",
		Short: "Fetch URLs and print the cookies their responses set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetches(cmd.OutOrStdout(), targets(args), func(fc *fetchclient.Client, url string, out *syncWriter) error {
				return await(func(done func(result.Result[[]fetchclient.Cookie])) error {
					return fc.FetchCookies(url, done)
				}, func(cookies []fetchclient.Cookie) {
					out.write(func(w io.Writer) {
						fmt.Fprintf(w, "== %s (%d cookies)\n", url, len(cookies))
						printCookies(w, cookies)
					})
				})
			})
		},
	}
	cmd.Flags().IntVarP(&c.concurrency, "concurrency", "c", 4, "fetches awaited at once")
	return cmd
}

func targets(args []string) []string {
	if len(args) == 0 {
		return []string{defaultURL}
	}
	return args
}

// syncWriter serializes whole blocks of output from concurrent fetches.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(fn func(io.Writer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.w)
}

func (c *cli) runFetches(stdout io.Writer, urls []string, one func(*fetchclient.Client, string, *syncWriter) error) error {
	wcCfg, err := c.cfg.WebClientConfig()
	if err != nil {
		return err
	}
	wc, err := webclient.NewWebClient(wcCfg, c.logger)
	if err != nil {
		return err
	}
	fc, err := fetchclient.New(wc, c.logger)
	if err != nil {
		return err
	}
	defer fc.Close()

	out := &syncWriter{w: stdout}

	// The group only bounds how many fetches are awaited at once. Its
	// goroutines never return an error so every URL is attempted; failures
	// are counted below instead.
	var g errgroup.Group
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	var (
		mu     sync.Mutex
		failed int
	)
	for _, url := range urls {
		g.Go(func() error {
			if err := one(fc, url, out); err != nil {
				c.logger.Error("fetch failed",
					logging.Field{Key: "url", Value: url},
					logging.Field{Key: "error", Value: err})
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // always nil

	if failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", failed, len(urls))
	}
	return nil
}

// await issues one fetch and blocks until its callback has fired. Invalid
// URLs fail synchronously; transport failures come back through the result.
func await[T any](issue func(func(result.Result[T])) error, onSuccess func(T)) error {
	ch := make(chan result.Result[T], 1)
	if err := issue(func(r result.Result[T]) { ch <- r }); err != nil {
		return err
	}
	v, err := (<-ch).Get()
	if err != nil {
		return err
	}
	onSuccess(v)
	return nil
}

func printCookies(w io.Writer, cookies []fetchclient.Cookie) {
	if len(cookies) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVALUE\tDOMAIN\tPATH\tEXPIRES\tSECURE\tHTTPONLY")
	for _, ck := range cookies {
		expires := "session"
		if ck.Expires != nil {
			expires = ck.Expires.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%t\n",
			ck.Name, ck.Value, ck.Domain, ck.Path, expires, ck.Secure, ck.HttpOnly)
	}
	_ = tw.Flush()
}
