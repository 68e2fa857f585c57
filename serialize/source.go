package serialize

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/llsd/errs"
)

// source is a budget-tracking byte reader shared by the binary and
// notation parsers.
//
// It counts every byte handed out and fails with ErrBudgetExceeded the
// moment a read, or a declared length about to be read, would push
// consumption past the budget. End of input before a requested byte is
// ErrTruncated. The underlying bufio reader may buffer ahead of the
// budget; only consumption is accounted.
type source struct {
	r        *bufio.Reader
	limit    int64 // SizeUnlimited means no budget
	consumed int64
}

func newSource(r io.Reader, maxBytes int64) *source {
	return &source{
		r:     bufio.NewReader(r),
		limit: maxBytes,
	}
}

// remaining returns the unconsumed budget, or math.MaxInt64 when the
// budget is unlimited.
func (s *source) remaining() int64 {
	if s.limit == SizeUnlimited {
		return math.MaxInt64
	}

	return s.limit - s.consumed
}

// checkBudget fails when reading n more bytes would exceed the budget.
func (s *source) checkBudget(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", errs.ErrLengthMismatch, n)
	}
	if n > s.remaining() {
		return fmt.Errorf("%w: need %d bytes, %d left in budget", errs.ErrBudgetExceeded, n, s.remaining())
	}

	return nil
}

// readByte consumes one byte.
func (s *source) readByte() (byte, error) {
	if err := s.checkBudget(1); err != nil {
		return 0, err
	}

	b, err := s.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	s.consumed++

	return b, nil
}

// peekByte returns the next byte without consuming it. Peeking is allowed
// even with zero budget left; only consumption is charged.
func (s *source) peekByte() (byte, error) {
	buf, err := s.r.Peek(1)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}

	return buf[0], nil
}

// readFull consumes exactly n bytes, checking the budget up front so an
// oversized declared length fails before any content is read.
func (s *source) readFull(n int64) ([]byte, error) {
	if err := s.checkBudget(n); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	read, err := io.ReadFull(s.r, buf)
	s.consumed += int64(read)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}

	return buf, nil
}
