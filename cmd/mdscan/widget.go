package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var widgetCmd = &cobra.Command{
	Use:   "widget [shell]",
	Short: "Output shell widget script for integration",
	Long: `Outputs a shell script that can be sourced for shell integration.

Usage:
  eval "$(mdscan widget bash)"

Then press Ctrl+G to pick a code snippet from your notes into the prompt.
The current prompt text is used as the initial filter.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE:      runWidget,
}

func runWidget(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch shell := args[0]; shell {
	case "bash":
		fmt.Fprint(out, bashWidget)
	case "zsh":
		fmt.Fprint(out, zshWidget)
	case "fish":
		fmt.Fprint(out, fishWidget)
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
	return nil
}

const bashWidget = `#!/usr/bin/env bash

_mdscan_widget() {
   local -r input="${READLINE_LINE}"

   local output
   output="$(mdscan browse --print --query "$input")"

   if [ -n "$output" ]; then
      READLINE_LINE="$output"
      READLINE_POINT=${#READLINE_LINE}
   fi
}

if [ ${BASH_VERSION:0:1} -lt 4 ]; then
   echo "mdscan widget requires bash 4+" >&2
else
   bind -x '"\C-g": _mdscan_widget'
fi
`

const zshWidget = `#!/usr/bin/env zsh

_mdscan_widget() {
   local input="$BUFFER"

   local output
   output="$(mdscan browse --print --query "$input")"

   if [ -n "$output" ]; then
      BUFFER="$output"
      CURSOR=${#BUFFER}
   fi

   zle reset-prompt
}

zle -N _mdscan_widget
bindkey '^g' _mdscan_widget
`

const fishWidget = `function _mdscan_widget
   set -l input (commandline)
   set -l output (mdscan browse --print --query "$input")

   if test -n "$output"
      commandline -r "$output"
      commandline -f end-of-line
   end

   commandline -f repaint
end

bind \cg _mdscan_widget
`
