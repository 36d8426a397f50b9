package main

import (
	"fmt"
	"os"

	"github.com/accredian/referral-api/cmd/cli/root"

	_ "github.com/accredian/referral-api/cmd/cli/referrals"
	_ "github.com/accredian/referral-api/cmd/cli/users"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
