package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/seller-cli/internal/bind"
	"github.com/mj1618/seller-cli/internal/imagelink"
	"github.com/mj1618/seller-cli/internal/output"
	"github.com/mj1618/seller-cli/internal/platform"
)

// ImagesResult is the output of `images`.
type ImagesResult struct {
	Profile string           `yaml:"profile"          json:"profile"`
	Count   int              `yaml:"count"            json:"count"`
	Copied  bool             `yaml:"copied,omitempty" json:"copied,omitempty"`
	Links   []imagelink.Link `yaml:"links"            json:"links"`
}

// Text implements output.Texter.
func (r ImagesResult) Text() string {
	return imagelink.Join(r.Links)
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List product images as markdown links",
	Long: `List every product image on the page as a markdown image link of width 150.
Thumbnail URLs ending in _tn are rewritten to the full-size image.

With --watch the page is scanned again every --interval and each image that
appears is reported once. Combined with --copy, the newest link is put on the
clipboard as it is found.

Examples:
  seller-cli images --profile dianxiaomi --format text
  seller-cli images --copy
  seller-cli images --watch --copy --for 5m`,
	Args: cobra.NoArgs,
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)
	imagesCmd.Flags().String("selector", "", "CSS selector for images (default: the profile's, else img)")
	imagesCmd.Flags().Bool("copy", false, "Copy the links to the clipboard")
	imagesCmd.Flags().Bool("watch", false, "Keep scanning and report new images as they appear")
	imagesCmd.Flags().Duration("interval", 2*time.Second, "Scan interval for --watch")
	imagesCmd.Flags().Duration("for", 0, "Stop watching after this long (0 = until interrupted)")
}

func runImages(cmd *cobra.Command, args []string) error {
	selector, _ := cmd.Flags().GetString("selector")
	copyLinks, _ := cmd.Flags().GetBool("copy")
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")
	limit, _ := cmd.Flags().GetDuration("for")

	sess, err := openSession(cmd.Context(), pageOptionsFromFlags())
	if err != nil {
		return err
	}
	defer sess.Close()

	if selector == "" {
		selector = sess.Profile.Images
	}
	if copyLinks && sess.Provider.ClipboardManager == nil {
		return fmt.Errorf("clipboard not supported by this backend")
	}

	if !watch {
		res, err := imageLinks(cmd.Context(), sess, selector, copyLinks)
		if err != nil {
			return err
		}
		return output.Print(res)
	}

	ctx := cmd.Context()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	var reg bind.Registry[string]
	return watchImages(ctx, sess.Provider.Document, selector, interval, &reg, func(l imagelink.Link) error {
		if copyLinks {
			if err := sess.Provider.ClipboardManager.SetText(l.Markdown); err != nil {
				return err
			}
		}
		return output.Print(l)
	})
}

// imageLinks collects the links once and optionally copies them all.
func imageLinks(ctx context.Context, sess *session, selector string, copyLinks bool) (ImagesResult, error) {
	links, err := imagelink.Collect(ctx, sess.Provider.Document, selector)
	if err != nil {
		return ImagesResult{}, err
	}
	res := ImagesResult{Profile: sess.Profile.Name, Count: len(links), Links: links}
	if res.Links == nil {
		res.Links = []imagelink.Link{}
	}
	if copyLinks && len(links) > 0 {
		if sess.Provider.ClipboardManager == nil {
			return res, fmt.Errorf("clipboard not supported by this backend")
		}
		if err := sess.Provider.ClipboardManager.SetText(imagelink.Join(links)); err != nil {
			return res, fmt.Errorf("copy links: %w", err)
		}
		res.Copied = true
	}
	return res, nil
}

// scanImages binds every image not yet in reg and returns how many were new.
// Images are keyed by their normalized URL.
func scanImages(ctx context.Context, doc platform.Document, selector string, reg *bind.Registry[string], emit func(imagelink.Link) error) (int, error) {
	links, err := imagelink.Collect(ctx, doc, selector)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range links {
		ok, err := reg.Bind(l.URL, func() error { return emit(l) })
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// watchImages scans until ctx is done. Scan errors are logged and retried.
func watchImages(ctx context.Context, doc platform.Document, selector string, interval time.Duration, reg *bind.Registry[string], emit func(imagelink.Link) error) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := scanImages(ctx, doc, selector, reg, emit)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("image scan failed", "error", err)
		} else if n > 0 {
			slog.Debug("images bound", "new", n, "total", reg.Len())
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
