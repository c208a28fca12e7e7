package main

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// newAuthedClient logs in as user and returns a client carrying the identity
// cookie, the way a browser session would.
func newAuthedClient(user string) (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := resty.New().SetBaseURL(apiFlag).SetCookieJar(jar)

	resp, err := c.R().
		SetFormData(map[string]string{"username": user}).
		Post("/api/login")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("login failed: http %d: %s", resp.StatusCode(), resp.String())
	}
	return c, nil
}

func init() {
	var userFlag, sessionFlag string

	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one message to the agent as a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			c, err := newAuthedClient(userFlag)
			if err != nil {
				return err
			}
			resp, err := c.R().
				SetHeader("Content-Type", "application/json").
				SetBody(map[string]interface{}{"message": args[0]}).
				Post("/api/agent")
			if err != nil {
				return err
			}
			if resp.StatusCode() != http.StatusOK {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	chatCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	_ = chatCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(chatCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Dump a session's persisted event history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" || sessionFlag == "" {
				return fmt.Errorf("--user and --session required")
			}
			c, err := newAuthedClient(userFlag)
			if err != nil {
				return err
			}
			resp, err := c.R().
				SetQueryParam("sessionId", sessionFlag).
				Get("/api/session-history")
			if err != nil {
				return err
			}
			if resp.StatusCode() != http.StatusOK {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	historyCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	historyCmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Session ID (required)")
	_ = historyCmd.MarkFlagRequired("user")
	_ = historyCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(historyCmd)
}
