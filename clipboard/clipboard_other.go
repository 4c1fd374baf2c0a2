//go:build !(freebsd || linux || netbsd || openbsd || solaris || dragonfly)

package clipboard

func readPrimary() (string, error) {
	return "", ErrUnsupported
}
