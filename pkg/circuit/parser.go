package circuit

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Parse reads a circuit description from r per the wire format: an optional
// "ORDER ..." line, then five header lines (SHARES, DUPLICATIONS, IN,
// RANDOMS, OUT), then equation lines. name identifies the source for error
// messages (typically the file path).
func Parse(name string, r io.Reader) (*Circuit, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	lineNo := 1

	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "ORDER") {
		lines = lines[1:]
		lineNo++
	}

	if len(lines) < 5 {
		return nil, NewParseError(name, lineNo, "header too short: expected SHARES/DUPLICATIONS/IN/RANDOMS/OUT")
	}

	shares, err := parseHeaderUint(name, lineNo, lines[0])
	if err != nil {
		return nil, err
	}

	duplications, err := parseHeaderUint(name, lineNo+1, lines[1])
	if err != nil {
		return nil, err
	}

	inputNames := headerTokens(lines[2])
	randoms := headerTokens(lines[3])
	outputNames := headerTokens(lines[4])

	if len(outputNames) != 1 {
		return nil, NewParseError(name, lineNo+4, "expected exactly one OUT wire")
	}

	c := &Circuit{
		Shares:                 shares,
		Duplications:           duplications,
		Randoms:                randoms,
		InputNameFromDuplicate: map[Wire]Wire{},
		OutputIdxFromDuplicate: map[Wire]uint{},
	}

	for _, x := range inputNames {
		for i := uint(0); i < shares; i++ {
			share := x + strconv.FormatUint(uint64(i), 10)
			c.Inputs = append(c.Inputs, share)

			for j := uint(0); j < duplications; j++ {
				c.InputNameFromDuplicate[duplicateName(share, j)] = share
			}
		}
	}

	outputDups := outputDuplicateNames(c, outputNames[0])

	eqs, err := parseEquations(name, lines[5:], lineNo+5, outputDups)
	if err != nil {
		return nil, err
	}

	if err := segregateOutputs(c, eqs, outputDups); err != nil {
		return nil, err
	}

	return c, nil
}

// outputDuplicateNames returns the s*d expected output-duplicate wire names
// for outputName, each mapped to its share index -- the same set
// segregateOutputs peels off the end of the equation list, computed ahead
// of time so parseEquations can recognise them too.
func outputDuplicateNames(c *Circuit, outputName string) map[Wire]uint {
	names := make(map[Wire]uint, c.Shares*c.Duplications)

	for i := uint(0); i < c.Shares; i++ {
		share := outputName + strconv.FormatUint(uint64(i), 10)
		for j := uint(0); j < c.Duplications; j++ {
			names[duplicateName(share, j)] = i
		}
	}

	return names
}

// headerTokens returns every whitespace-separated token on a header line
// after its first (keyword) token. Per the format, keyword text is not
// validated -- only position matters.
func headerTokens(line string) []string {
	fields := strings.Fields(line)
	if len(fields) <= 1 {
		return nil
	}

	return fields[1:]
}

func parseHeaderUint(file string, line int, text string) (uint, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return 0, NewParseError(file, line, "expected a header value")
	}

	n, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, NewParseError(file, line, "expected an integer: "+fields[1])
	}

	return uint(n), nil
}

// parseEquations parses the body of the circuit file into an equation list
// in file order. Package fault evaluates that order as a topological one;
// this function does not check that every RHS wire is defined earlier, so a
// wire referenced before its definition is not reported as an error.
//
// outputDups names are exempt from the duplicate-definition check: per
// spec.md §3/§4.2/§9, redefining an output-duplicate wire is not malformed
// -- it's how the wire format expresses "this earlier equation of the same
// name was scratch work; the last one is the real output" (original_source
// keeps the last occurrence and demotes the rest to internal equations, it
// never rejects the file). Any other repeated dst is still malformed per
// spec.md §7.
func parseEquations(file string, lines []string, firstLineNo int, outputDups map[Wire]uint) ([]Equation, error) {
	eqs := make([]Equation, 0, len(lines))
	seen := map[Wire]bool{}

	for i, raw := range lines {
		lineNo := firstLineNo + i
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := stripDecorations(strings.Fields(line))
		if len(tokens) == 0 {
			continue
		}

		eq, err := parseEquationTokens(file, lineNo, tokens)
		if err != nil {
			return nil, err
		}

		_, isOutputDup := outputDups[eq.Dst]

		if seen[eq.Dst] && !isOutputDup {
			return nil, NewParseError(file, lineNo, "duplicate definition of "+eq.Dst)
		}

		seen[eq.Dst] = true
		eqs = append(eqs, eq)
	}

	return eqs, nil
}

// stripDecorations removes the optional "![" "]" bracket tokens (which may
// appear anywhere) and a trailing "#..." comment token.
func stripDecorations(tokens []string) []string {
	out := tokens[:0:0]

	for _, t := range tokens {
		if t == "![" || t == "]" {
			continue
		}

		out = append(out, t)
	}

	if n := len(out); n > 0 && strings.HasPrefix(out[n-1], "#") {
		out = out[:n-1]
	}

	return out
}

// parseEquationTokens parses one of:
//
//	dst = src            (COPY)
//	dst = ~src            (NEG)
//	dst = a <op> b        (BINOP, op in {+, *})
func parseEquationTokens(file string, line int, tokens []string) (Equation, error) {
	if len(tokens) < 3 || tokens[1] != "=" {
		return Equation{}, NewParseError(file, line, "expected 'dst = ...'")
	}

	dst := tokens[0]

	switch len(tokens) {
	case 3:
		rhs := tokens[2]
		if strings.HasPrefix(rhs, "~") {
			return Equation{Dst: dst, Form: Neg{Src: rhs[1:]}}, nil
		}

		return Equation{Dst: dst, Form: Copy{Src: rhs}}, nil
	case 5:
		op, err := parseOp(file, line, tokens[3])
		if err != nil {
			return Equation{}, err
		}

		return Equation{Dst: dst, Form: BinOp{Op: op, A: tokens[2], B: tokens[4]}}, nil
	default:
		return Equation{}, NewParseError(file, line, "malformed equation")
	}
}

func parseOp(file string, line int, tok string) (Op, error) {
	switch tok {
	case "+":
		return ADD, nil
	case "*":
		return MUL, nil
	default:
		return 0, NewParseError(file, line, "unknown operator token "+tok)
	}
}

// segregateOutputs implements the last-definition-wins rule of spec.md §3
// and §4.2: iterating the equation list in reverse, the first occurrence of
// each expected duplicated-output name is peeled off into EqsOutputs
// (preserving original order in both resulting lists); everything else stays
// internal.
func segregateOutputs(c *Circuit, eqs []Equation, outputDups map[Wire]uint) error {
	remaining := make(map[Wire]bool, len(outputDups))

	for name, share := range outputDups {
		remaining[name] = true
		c.OutputIdxFromDuplicate[name] = share
	}

	expected := len(remaining)
	isOutput := make([]bool, len(eqs))

	for i := len(eqs) - 1; i >= 0; i-- {
		name := eqs[i].Dst
		if remaining[name] {
			isOutput[i] = true
			delete(remaining, name)
		}
	}

	if len(remaining) != 0 {
		return NewParseError("", 0, "internal invariant violated: failed to find all output duplicates")
	}

	var (
		internal []Equation
		outputs  []Equation
		count    int
	)

	for i, eq := range eqs {
		if isOutput[i] {
			outputs = append(outputs, eq)
			count++
		} else {
			internal = append(internal, eq)
		}
	}

	if count != expected {
		return NewParseError("", 0, "internal invariant violated: output equation count mismatch")
	}

	c.Eqs = internal
	c.EqsOutputs = outputs

	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	// Circuit files can have long equation lines once degree grows; match
	// go-corset's defensive bump of the default scanner buffer.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
