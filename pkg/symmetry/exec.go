package symmetry

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/spinflip/pkg/errors"
	"github.com/arthur-debert/spinflip/pkg/logging"
	"github.com/arthur-debert/spinflip/pkg/magnetic"
	"github.com/arthur-debert/spinflip/pkg/types"
)

// DefaultTimeout bounds a single helper invocation
const DefaultTimeout = 5 * time.Minute

// Request is written as JSON to the helper's stdin. Magmoms holds the
// moment vectors used for the spin-space-group search and Collinear their
// z components, the form magnetic space group labelers take. Both are
// empty when only the non-magnetic space group is needed.
type Request struct {
	Lattice   [][]float64 `json:"lattice"`
	Positions [][]float64 `json:"positions"`
	Numbers   []int       `json:"numbers"`
	Magmoms   [][]float64 `json:"magmoms,omitempty"`
	Collinear []float64   `json:"collinear_magmoms,omitempty"`
	Symprec   float64     `json:"symprec"`
}

// NewRequest builds the helper request for a structure and its moments
func NewRequest(s types.Structure, moments types.Moments, symprec float64) Request {
	req := Request{
		Lattice: make([][]float64, 3),
		Numbers: append([]int(nil), s.Numbers...),
		Symprec: symprec,
	}
	for i := range s.Lattice {
		req.Lattice[i] = append([]float64(nil), s.Lattice[i][:]...)
	}
	for _, p := range s.Positions {
		req.Positions = append(req.Positions, append([]float64(nil), p[:]...))
	}
	for _, m := range moments {
		req.Magmoms = append(req.Magmoms, append([]float64(nil), m[:]...))
	}
	if len(moments) > 0 {
		req.Collinear = magnetic.Scalars(moments)
	}
	return req
}

// ExecSource runs a helper command that reads a Request on stdin and
// prints a JSON Dataset on stdout. Results are cached per request.
type ExecSource struct {
	Command []string
	Dir     string
	Env     []string
	Timeout time.Duration

	mu    sync.Mutex
	cache map[string]*Dataset
}

// NewExecSource creates a source running command, where command[0] is
// the program and the rest its arguments.
func NewExecSource(command []string) *ExecSource {
	return &ExecSource{Command: command, Timeout: DefaultTimeout}
}

func (e *ExecSource) run(ctx context.Context, req Request) (*Dataset, error) {
	logger := logging.GetLogger("symmetry.exec")

	if len(e.Command) == 0 || e.Command[0] == "" {
		return nil, errors.New(errors.ErrConfigValid, "symmetry.command is empty")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode helper request")
	}
	key := string(payload)

	e.mu.Lock()
	defer e.mu.Unlock()
	if d, ok := e.cache[key]; ok {
		return d, nil
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.Dir
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info().
		Strs("command", e.Command).
		Int("atoms", len(req.Numbers)).
		Bool("magnetic", len(req.Magmoms) > 0).
		Msg("Running symmetry helper")

	if err := cmd.Run(); err != nil {
		logger.Error().
			Err(err).
			Strs("command", e.Command).
			Str("stderr", stderr.String()).
			Msg("Symmetry helper failed")
		return nil, errors.Wrapf(err, errors.ErrSourceExecute, "symmetry helper %s failed", e.Command[0]).
			WithDetail("command", strings.Join(e.Command, " ")).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}

	d, err := DecodeDataset(&stdout, EncodingJSON, e.Command[0])
	if err != nil {
		return nil, err
	}

	if e.cache == nil {
		e.cache = make(map[string]*Dataset)
	}
	e.cache[key] = d
	return d, nil
}

// SpaceGroup implements SpaceGroupAnalyzer
func (e *ExecSource) SpaceGroup(ctx context.Context, s types.Structure, symprec float64) types.Label {
	d, err := e.run(ctx, NewRequest(s, nil, symprec))
	if err != nil {
		logger := logging.GetLogger("symmetry.exec")
		logger.Warn().Err(err).Msg("Non-magnetic symmetry detection failed")
		return types.UnavailableLabel(types.PlaceholderUnknown, err.Error())
	}
	return SpaceGroupLabel(d.SpaceGroup)
}

// SpinSymmetry implements SpinSymmetrySearcher
func (e *ExecSource) SpinSymmetry(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) (SpinSymmetry, error) {
	d, err := e.run(ctx, NewRequest(s, moments, symprec))
	if err != nil {
		return SpinSymmetry{}, err
	}
	return d.spinSymmetry(s, moments)
}

// MagneticSpaceGroup implements MagneticLabeler
func (e *ExecSource) MagneticSpaceGroup(ctx context.Context, s types.Structure, moments types.Moments, symprec float64) types.Label {
	d, err := e.run(ctx, NewRequest(s, moments, symprec))
	if err != nil {
		return types.UnavailableLabel(types.PlaceholderNotFound, err.Error())
	}
	return MagneticLabel(d.Magnetic)
}
