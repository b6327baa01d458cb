package utils

import "github.com/erikdubbelboer/gspt"

// SetProcTitle sets the process title shown by ps/top to reflect the
// supervisor's live state (e.g. job count).
func SetProcTitle(title string) {
	gspt.SetProcTitle(title)
}