package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/accredian/referral-api/cmd/cli/config"
	"github.com/accredian/referral-api/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	var username, email, password string

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user and store the returned JWT token locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("--username, --email and --password are required")
			}

			var out struct {
				Message string `json:"message"`
				Token   string `json:"token"`
			}
			if err := postJSON("/register", map[string]string{
				"username": username,
				"email":    email,
				"password": password,
			}, &out); err != nil {
				return err
			}
			if out.Token == "" {
				return fmt.Errorf("register succeeded but no token returned")
			}
			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Println(out.Message)
			return nil
		},
	}
	registerCmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	registerCmd.Flags().StringVar(&email, "email", "", "Email address for the new account")
	registerCmd.Flags().StringVar(&password, "password", "", "Password for the new account")

	var loginUsername, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the JWT token locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginUsername == "" || loginPassword == "" {
				return fmt.Errorf("--username and --password are required")
			}

			var out struct {
				Message string `json:"message"`
				Token   string `json:"token"`
			}
			if err := postJSON("/login", map[string]string{
				"username": loginUsername,
				"password": loginPassword,
			}, &out); err != nil {
				return err
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Println(out.Message)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Username to authenticate as")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved JWT token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}

	root.GetRoot().AddCommand(registerCmd, loginCmd, logoutCmd)
}

func postJSON(path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(config.APIURL()+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Message != "" {
			return fmt.Errorf("API error: %s", errResp.Message)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}
	return nil
}
