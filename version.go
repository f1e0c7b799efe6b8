package slideshow

import "fmt"

// Version information for the GoSlideshow library.
const (
	VersionMajor = 1
	VersionMinor = 2
	VersionPatch = 0
)

// Version is the full version string of the GoSlideshow library.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
