package cmd

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/i64/remote-archive/internal/archive"
	"github.com/i64/remote-archive/internal/treeprint"
)

var (
	flagURLs               []string
	flagURLFile             string
	flagProxy               string
	flagTree                bool
	flagTimeout             time.Duration
	flagInsecureSkipVerify  bool
)

// ListCmd lists the entries of a remote archive.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a remote ZIP archive",
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringArrayVar(&flagURLs, "url", nil, "archive part URL (repeatable, in part order)")
	ListCmd.Flags().StringVar(&flagURLFile, "url-file", "", "file of part URLs, one per line")
	ListCmd.Flags().StringVar(&flagProxy, "proxy", "", "HTTP/HTTPS proxy URL")
	ListCmd.Flags().BoolVar(&flagTree, "tree", false, "render entries as a directory tree")
	ListCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-request HTTP timeout")
	ListCmd.Flags().BoolVar(&flagInsecureSkipVerify, "insecure-skip-verify", false, "skip TLS certificate verification")
}

func runList(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), flagURLs...)
	if flagURLFile != "" {
		fromFile, err := readURLFile(flagURLFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("list: at least one --url or --url-file is required")
	}

	timeout := flagTimeout
	if timeout <= 0 {
		timeout = activeConfig.HTTP.Timeout()
	}
	proxy := firstNonEmpty(flagProxy, activeConfig.HTTP.Proxy)
	insecure := flagInsecureSkipVerify || activeConfig.HTTP.TLSInsecureSkipVerify

	client, err := buildClient(timeout, proxy, insecure)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	driver, err := archive.NewDriver(ctx, client, urls)
	if err != nil {
		return err
	}

	entries, err := driver.List(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagTree {
		treeprint.Print(out, entries)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, e.Name)
	}
	return nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "list: open url file %q", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "list: read url file %q", path)
	}
	return urls, nil
}

func buildClient(timeout time.Duration, proxy string, insecureSkipVerify bool) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrapf(err, "list: parse proxy %q", proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
