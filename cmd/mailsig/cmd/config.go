package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-mailsig/sig"
)

// Config is the signing configuration loaded from YAML. Unknown keys are
// rejected so a typo in a footer file fails loudly rather than silently
// sending unsigned mail.
type Config struct {
	Footer      FooterConfig       `yaml:"footer"`
	Templates   bool               `yaml:"templates"`
	ForceHTML   bool               `yaml:"force_html"`
	StripMarker bool               `yaml:"strip_marker"`
	Attachments []AttachmentConfig `yaml:"attachments"`
	DKIM        *DKIMConfig        `yaml:"dkim"`
}

type FooterConfig struct {
	Plain string `yaml:"plain"`
	HTML  string `yaml:"html"`
}

type AttachmentConfig struct {
	Path      string `yaml:"path"`
	MediaType string `yaml:"media_type"`
	Filename  string `yaml:"filename"`
	ContentID string `yaml:"content_id"`
	Inline    bool   `yaml:"inline"`
}

type DKIMConfig struct {
	Domain   string   `yaml:"domain"`
	Selector string   `yaml:"selector"`
	KeyFile  string   `yaml:"key_file"`
	Headers  []string `yaml:"headers"`
}

// locateConfig resolves the configuration file path from the --config flag,
// the MAILSIG_CONFIG environment variable, or a mailsig.yaml in the working
// directory, in that order.
func locateConfig() (string, error) {
	viper.SetEnvPrefix("MAILSIG")
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	viper.SetConfigName("mailsig")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.mailsig")

	if err := viper.ReadInConfig(); err != nil {
		return "", errors.Wrap(err, "unable to locate a signing configuration")
	}

	return viper.ConfigFileUsed(), nil
}

func loadConfig() (*Config, error) {
	path, err := locateConfig()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the signing configuration")
	}

	return parseConfig(raw, path)
}

func parseConfig(raw []byte, path string) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: bad signing configuration %s: %v",
			sig.ErrInvalidArgument, path, err)
	}

	return cfg, nil
}

// buildSigner turns the loaded configuration into a ready Signer, reading
// attachment sources and the DKIM key from disk.
func buildSigner(cfg *Config) (*sig.Signer, error) {
	opts := []sig.Option{}
	if cfg.Templates {
		opts = append(opts, sig.WithFooterTemplates())
	}
	if cfg.ForceHTML {
		opts = append(opts, sig.WithForcedHTML())
	}
	if cfg.StripMarker {
		opts = append(opts, sig.WithMarkerStripped())
	}

	if cfg.DKIM != nil {
		key, err := os.ReadFile(cfg.DKIM.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read the DKIM key file")
		}

		opts = append(opts, sig.WithDKIM(
			cfg.DKIM.Domain, cfg.DKIM.Selector, key, cfg.DKIM.Headers...))
	}

	s := sig.New(opts...)

	if cfg.Footer.Plain != "" || cfg.Footer.HTML != "" {
		if err := s.SetFooter(cfg.Footer.Plain, cfg.Footer.HTML); err != nil {
			return nil, err
		}
	}

	for _, ac := range cfg.Attachments {
		src, err := os.ReadFile(ac.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read attachment %s", ac.Path)
		}

		filename := ac.Filename
		if filename == "" {
			filename = filepath.Base(ac.Path)
		}

		err = s.AddAttachment(sig.Attachment{
			Source:    src,
			MediaType: ac.MediaType,
			Filename:  filename,
			ContentID: ac.ContentID,
			Inline:    ac.Inline,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "bad attachment %s", ac.Path)
		}
	}

	return s, nil
}
