package universe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/gravsim/internal/body"
)

var (
	// ErrMalformed indicates a universe file that cannot be parsed.
	ErrMalformed = errors.New("universe: malformed input")

	// ErrInvalidBody indicates a body that breaks the physical preconditions.
	ErrInvalidBody = errors.New("universe: invalid body")
)

// Universe is a set of bodies inside a square of half-width Radius.
type Universe struct {
	Radius float64
	Bodies []*body.Body
}

func (u *Universe) Clone() *Universe {
	c := &Universe{Radius: u.Radius, Bodies: make([]*body.Body, len(u.Bodies))}
	for i, b := range u.Bodies {
		c.Bodies[i] = b.Clone()
	}
	return c
}

// Validate reports the first body with non-positive mass or a position
// shared with an earlier body.
func (u *Universe) Validate() error {
	for i, b := range u.Bodies {
		if !(b.Mass() > 0) {
			return fmt.Errorf("%w: body %d (%s) has mass %g", ErrInvalidBody, i, b.Asset(), b.Mass())
		}
		for j := 0; j < i; j++ {
			if u.Bodies[j].DistanceTo(b) == 0 {
				return fmt.Errorf("%w: bodies %d and %d share position (%g, %g)", ErrInvalidBody, j, i, b.X(), b.Y())
			}
		}
	}
	return nil
}

// Load reads a universe file from disk.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses the count, the radius and count records of
// "x y vx vy mass asset". Anything after the last record is ignored.
func Read(r io.Reader) (*Universe, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: missing %s", ErrMalformed, what)
		}
		return sc.Text(), nil
	}
	float := func(what string) (float64, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformed, what, tok)
		}
		return v, nil
	}

	tok, err := next("body count")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: body count %q", ErrMalformed, tok)
	}

	radius, err := float("radius")
	if err != nil {
		return nil, err
	}

	u := &Universe{Radius: radius, Bodies: make([]*body.Body, 0, min(n, 1024))}
	for i := 0; i < n; i++ {
		var vals [5]float64
		for k, name := range [5]string{"x", "y", "vx", "vy", "mass"} {
			v, err := float(fmt.Sprintf("body %d %s", i, name))
			if err != nil {
				return nil, err
			}
			vals[k] = v
		}
		asset, err := next(fmt.Sprintf("body %d asset", i))
		if err != nil {
			return nil, err
		}
		u.Bodies = append(u.Bodies, body.New(vals[0], vals[1], vals[2], vals[3], vals[4], asset))
	}

	return u, nil
}

// Write prints u in the format Read accepts.
func Write(w io.Writer, u *Universe) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(u.Bodies))
	fmt.Fprintf(bw, "%.2e\n", u.Radius)
	for _, b := range u.Bodies {
		fmt.Fprintln(bw, b.String())
	}
	return bw.Flush()
}

// Save writes u to path.
func Save(path string, u *Universe) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, u); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
