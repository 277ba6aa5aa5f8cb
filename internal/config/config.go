package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Path          string   `mapstructure:"path"`
	Format        string   `mapstructure:"format"`
	Output        string   `mapstructure:"output"`
	Shell         string   `mapstructure:"shell"`
	Kinds         []string `mapstructure:"kinds"`
	Blocks        bool     `mapstructure:"blocks"`
	Extensions    []string `mapstructure:"extensions"`
	ChromaStyle   string   `mapstructure:"chroma_style"`
	ColorInline   string   `mapstructure:"color_inline"`
	ColorIndented string   `mapstructure:"color_indented"`
	ColorFenced   string   `mapstructure:"color_fenced"`
	ColorPath     string   `mapstructure:"color_path"`
	ColorDim      string   `mapstructure:"color_dim"`
	ColorBorder   string   `mapstructure:"color_border"`
	ColorCursor   string   `mapstructure:"color_cursor"`
	Editor        string   `mapstructure:"editor"`
	Debug         bool     `mapstructure:"debug"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	SetDefaults()

	viper.SetConfigName("mdscan")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "mdscan"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MDSCAN")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("path", ".")
	viper.SetDefault("format", "text")
	viper.SetDefault("output", "print")
	viper.SetDefault("shell", getDefaultShell())
	viper.SetDefault("kinds", []string{}) // Empty means every kind
	viper.SetDefault("blocks", false)
	viper.SetDefault("extensions", []string{".md", ".markdown"})
	viper.SetDefault("chroma_style", "monokai")
	viper.SetDefault("color_inline", "33")   // Yellow
	viper.SetDefault("color_indented", "32") // Green
	viper.SetDefault("color_fenced", "36")   // Cyan
	viper.SetDefault("color_path", "35")     // Magenta
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_cursor", "212")
	viper.SetDefault("editor", "") // Empty uses the system opener
	viper.SetDefault("debug", false)
}

// GetPath returns the scan path with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetFormat returns the listing format (text or json)
func GetFormat() string {
	return viper.GetString("format")
}

// GetOutput returns the output mode for a selected block
func GetOutput() string {
	return viper.GetString("output")
}

// GetShell returns the shell used to run code blocks
func GetShell() string {
	return viper.GetString("shell")
}

// GetKinds returns the artifact kinds to report; empty means all
func GetKinds() []string {
	var kinds []string
	for _, k := range viper.GetStringSlice("kinds") {
		// Env values arrive as one comma separated string
		for _, part := range strings.Split(k, ",") {
			if part = strings.TrimSpace(part); part != "" {
				kinds = append(kinds, part)
			}
		}
	}
	return kinds
}

// GetBlocks returns whether listings group lines into blocks
func GetBlocks() bool {
	return viper.GetBool("blocks")
}

// GetExtensions returns the file suffixes treated as Markdown
func GetExtensions() []string {
	return viper.GetStringSlice("extensions")
}

// GetChromaStyle returns the chroma style name used for code previews
func GetChromaStyle() string {
	return viper.GetString("chroma_style")
}

// GetColorInline returns ANSI color code for inline code
func GetColorInline() string {
	return viper.GetString("color_inline")
}

// GetColorIndented returns ANSI color code for indented code
func GetColorIndented() string {
	return viper.GetString("color_indented")
}

// GetColorFenced returns ANSI color code for fenced code
func GetColorFenced() string {
	return viper.GetString("color_fenced")
}

// GetColorPath returns ANSI color code for file paths
func GetColorPath() string {
	return viper.GetString("color_path")
}

// GetColorDim returns the color for delimiters and secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorBorder returns the color for borders and dividers
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorCursor returns the color of the list cursor
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetEditor returns the command used to open a document from the browser
func GetEditor() string {
	return viper.GetString("editor")
}

// GetDebug returns whether debug logging is on
func GetDebug() bool {
	return viper.GetBool("debug")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetPath sets path at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.Path = path
}

// SetFormat sets the listing format at runtime
func SetFormat(format string) {
	viper.Set("format", format)
	C.Format = format
}

func getDefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}
