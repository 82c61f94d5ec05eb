package cli

import (
	"fmt"

	"github.com/diillson/aws-reservation-audit/pkg/console"
	"github.com/diillson/aws-reservation-audit/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$$  /$$$$$$        /$$$$$$                  /$$ /$$   /$$
         | $$__  $$|_  $$_/       /$$__  $$                | $$|__/  | $$
         | $$  \ $$  | $$        | $$  \ $$ /$$   /$$  /$$$$$$$ /$$ /$$$$$$
         | $$$$$$$/  | $$        | $$$$$$$$| $$  | $$ /$$__  $$| $$|_  $$_/
         | $$__  $$  | $$        | $$__  $$| $$  | $$| $$  | $$| $$  | $$
         | $$  \ $$  | $$        | $$  | $$| $$  | $$| $$  | $$| $$  | $$ /$$
         | $$  | $$ /$$$$$$      | $$  | $$|  $$$$$$/|  $$$$$$$| $$  |  $$$$/
         |__/  |__/|______/      |__/  |__/ \______/  \_______/|__/   \___/
        `
	fmt.Println(console.BrightRed(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(console.BrightBlue(fmt.Sprintf("AWS Reservation Audit CLI (v%s)", formattedVersion)))
}
