package cli

import (
	"fmt"

	"github.com/diillson/aws-cost-trends/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
      ___      _____   ___         _     _____                 _
     /_\ \    / / __| / __|___ ___| |_  |_   _| _ ___ _ _  __| |___
    / _ \ \/\/ /\__ \| (__/ _ (_-<  _|   | || '_/ -_) ' \/ _` + "`" + ` (_-<
   /_/ \_\_/\_/ |___/ \___\___/__/\__|   |_||_| \___|_||_\__,_/__/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("AWS Cost Trends CLI (v%s)", version.FormatVersion())))
}
