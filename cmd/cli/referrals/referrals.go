package referrals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/accredian/referral-api/cmd/cli/config"
	"github.com/accredian/referral-api/cmd/cli/output"
	"github.com/accredian/referral-api/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	referralsCmd := &cobra.Command{
		Use:   "referrals",
		Short: "Send and list referrals",
		Long:  "Create a referral (which emails the referee) or list your referrals. Requires login.",
	}

	var name, email, message string
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send a referral",
		Long:  "Create a referral for the given referee; the API emails them a notification.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return fmt.Errorf("--name and --email are required")
			}

			payload := map[string]string{
				"refereeName":  name,
				"refereeEmail": email,
			}
			if message != "" {
				payload["message"] = message
			}

			var out struct {
				Message  string `json:"message"`
				Referral struct {
					ID int `json:"id"`
				} `json:"referral"`
			}
			if err := callAPI("POST", "/referral", payload, &out); err != nil {
				return err
			}
			fmt.Printf("%s (id %d)\n", out.Message, out.Referral.ID)
			return nil
		},
	}
	sendCmd.Flags().StringVar(&name, "name", "", "Referee name")
	sendCmd.Flags().StringVar(&email, "email", "", "Referee email address")
	sendCmd.Flags().StringVar(&message, "message", "", "Optional personal message")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your referrals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Referrals []struct {
					ID           int       `json:"id"`
					RefereeName  string    `json:"refereeName"`
					RefereeEmail string    `json:"refereeEmail"`
					Message      string    `json:"message"`
					CreatedAt    time.Time `json:"createdAt"`
				} `json:"referrals"`
			}
			if err := callAPI("GET", "/referrals", nil, &out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Referrals))
			for _, ref := range out.Referrals {
				rows = append(rows, []interface{}{
					ref.ID, ref.RefereeName, ref.RefereeEmail, ref.Message, ref.CreatedAt.Format(time.RFC3339),
				})
			}
			output.RenderTable([]string{"ID", "Name", "Email", "Message", "Created"}, rows)
			return nil
		},
	}

	referralsCmd.AddCommand(sendCmd, listCmd)
	root.GetRoot().AddCommand(referralsCmd)
}

func callAPI(method, path string, payload interface{}, out interface{}) error {
	token, err := config.LoadToken()
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("not logged in: run 'referral login' first")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("token rejected (status %d): run 'referral login' again", resp.StatusCode)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &errResp)
		if errResp.Message != "" {
			return fmt.Errorf("API error: %s", errResp.Message)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}
	return nil
}
