package pipeline

import (
	"fmt"
	"strconv"

	"github.com/ironsheep/pixel-pipeline/internal/dither"
	"github.com/ironsheep/pixel-pipeline/internal/resample"
)

// Parse builds the stage list from command tokens, strictly left to right.
//
// Grammar:
//
//	--load <path>              LoadStage
//	--lanczos <width> <height> ResizeStage with a radius 3 window
//	--dither                   DitherStage, Floyd-Steinberg onto the 16 color palette
//	--save <path>              SaveStage
//
// A token that follows a stage is always consumed as its argument, even if it
// looks like a stage token itself.
//
// # Errors
//
//   - ErrUnknownStage names a token that does not start a stage
//   - ErrMissingArgument names the argument a stage ran out of tokens for
//   - ErrParse reports a width or height that is not a non-negative integer
func Parse(tokens []string) ([]Stage, error) {
	p := &parser{tokens: tokens}
	var stages []Stage

	for !p.done() {
		pos, tok := p.pos, p.next()

		var (
			stage Stage
			err   error
		)
		switch tok {
		case "--load":
			stage, err = p.load(tok)
		case "--lanczos":
			stage, err = p.resize(tok)
		case "--dither":
			stage = DitherStage{Kernel: dither.FloydSteinberg(), Palette: dither.Palette16()}
		case "--save":
			stage, err = p.save(tok)
		default:
			err = fmt.Errorf("%w %q at position %d", ErrUnknownStage, tok, pos+1)
		}
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, nil
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) next() string {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// arg consumes the argument called name of the stage token tok.
func (p *parser) arg(tok, name string) (string, error) {
	if p.done() {
		return "", fmt.Errorf("%w: %s requires <%s>", ErrMissingArgument, tok, name)
	}
	return p.next(), nil
}

// dimension consumes a non-negative integer argument.
func (p *parser) dimension(tok, name string) (int, error) {
	raw, err := p.arg(tok, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %s <%s> %q: %w", ErrParse, tok, name, raw, err)
	}
	return int(v), nil
}

func (p *parser) load(tok string) (Stage, error) {
	path, err := p.arg(tok, "path")
	if err != nil {
		return nil, err
	}
	return LoadStage{Path: path}, nil
}

func (p *parser) resize(tok string) (Stage, error) {
	width, err := p.dimension(tok, "width")
	if err != nil {
		return nil, err
	}
	height, err := p.dimension(tok, "height")
	if err != nil {
		return nil, err
	}
	return ResizeStage{Width: width, Height: height, Lobes: resample.DefaultLobes}, nil
}

func (p *parser) save(tok string) (Stage, error) {
	path, err := p.arg(tok, "path")
	if err != nil {
		return nil, err
	}
	return SaveStage{Path: path}, nil
}
