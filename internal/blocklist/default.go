package blocklist

// DefaultPatterns is the hardcoded default set: the interactive shells
// and administrative tools a block window is meant to keep closed.
var DefaultPatterns = Patterns{
	Shells: []string{
		"bash",
		"zsh",
		"fish",
		"sh",
		"dash",
		"ksh",
		"tcsh",
		"csh",
		"pwsh",
		"powershell",
		"cmd",
	},
	AdminTools: []string{
		"regedit",
		"taskmgr",
		"mmc",
		"gpedit",
		"msconfig",
		"systemsettings",
		"gnome-terminal",
		"konsole",
		"xterm",
		"alacritty",
	},
}
