package benchboard

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/benchboard/internal/appconfig"
)

func runShowConfig(out io.Writer, dump bool) {
	cfg := getConfig()
	fallback := appconfig.Config{
		ScoresPath: vp.GetString("scoresPath"),
		OutputDir:  vp.GetString("outputDir"),
		LogFile:    vp.GetString("logFile"),
		Debug:      vp.GetBool("debug"),
		Gzip:       vp.GetBool("gzip"),
	}
	appconfig.ShowConfig(out, vp.ConfigFileUsed(), cfg, fallback)

	if !dump {
		return
	}
	if cfg == nil {
		cfg = &fallback
	}
	pp.ColoringEnabled = false
	fmt.Fprintln(out)
	_, _ = pp.Fprintln(out, *cfg)
}
