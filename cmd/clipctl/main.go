package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const apiKeyHeader = "x-api-key"

var (
	addr   string
	apiKey string
)

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "ClipStash API client",
	Long:  "clipctl talks to a running ClipStash server over its JSON API.",
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Generate a new API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := request(http.MethodPost, "/api/key", nil, false)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <shortcode>",
	Short: "Retrieve a clip by short code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		path := "/api/clip/" + args[0]
		if password != "" {
			path += "?password=" + password
		}
		body, err := request(http.MethodGet, path, nil, true)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var newCmd = &cobra.Command{
	Use:   "new <content>",
	Short: "Create a new clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := clipPayload(cmd, args[0])
		if err != nil {
			return err
		}
		body, err := request(http.MethodPost, "/api/clip", payload, true)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <shortcode> <content>",
	Short: "Overwrite an existing clip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := clipPayload(cmd, args[1])
		if err != nil {
			return err
		}
		body, err := request(http.MethodPut, "/api/clip/"+args[0], payload, true)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

func init() {
	defaultAddr := os.Getenv("CLIPSTASH_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://127.0.0.1:8000"
	}

	rootCmd.PersistentFlags().StringVar(&addr, "addr", defaultAddr, "server address")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("CLIPSTASH_API_KEY"), "api key")

	for _, cmd := range []*cobra.Command{getCmd, newCmd, updateCmd} {
		cmd.Flags().StringP("password", "p", "", "clip password")
	}
	for _, cmd := range []*cobra.Command{newCmd, updateCmd} {
		cmd.Flags().StringP("title", "t", "", "clip title")
		cmd.Flags().StringP("expires-at", "e", "", "expiration date (YYYY-MM-DD)")
	}

	rootCmd.AddCommand(keyCmd, getCmd, newCmd, updateCmd)
}

func clipPayload(cmd *cobra.Command, content string) ([]byte, error) {
	title, _ := cmd.Flags().GetString("title")
	password, _ := cmd.Flags().GetString("password")
	expiresAt, _ := cmd.Flags().GetString("expires-at")

	return json.Marshal(map[string]string{
		"title":      title,
		"content":    content,
		"password":   password,
		"expires_at": expiresAt,
	})
}

func request(method, path string, payload []byte, authed bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, addr+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if apiKey == "" {
			return nil, fmt.Errorf("an api key is required; generate one with `clipctl key`")
		}
		req.Header.Set(apiKeyHeader, apiKey)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}

func printJSON(body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
