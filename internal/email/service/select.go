package service

import (
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/cybaemtech/licensedesk/internal/config"
	edomain "github.com/cybaemtech/licensedesk/internal/email/domain"
)

// NewSender selects the mail transport once at startup. An explicit
// MAIL_MODE wins; auto probes for a local relay binary and falls back
// to sandbox when none is found.
func NewSender(cfg config.Config, log zerolog.Logger) edomain.Sender {
	mode := cfg.MailMode
	if mode == config.MailModeAuto {
		if relayAvailable() {
			mode = config.MailModeRelay
		} else {
			mode = config.MailModeSandbox
		}
		log.Info().Str("mode", mode).Msg("mail transport auto-detected")
	}
	if mode == config.MailModeRelay {
		return NewRelay(cfg)
	}
	return NewSandbox(cfg.SandboxDir, log)
}

var sendmailPaths = []string{"/usr/sbin/sendmail", "/usr/lib/sendmail"}

func relayAvailable() bool {
	for _, p := range sendmailPaths {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return true
		}
	}
	_, err := exec.LookPath("sendmail")
	return err == nil
}
