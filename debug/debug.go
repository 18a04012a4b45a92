package debug

import (
	"os"
	"strconv"

	"github.com/evanlindqvist/golox/utils"
)

// DEBUG gates the VM's per-instruction execution trace and the
// compiler's post-compile disassembly dump. It defaults to whatever
// GOLOX_TRACE is set to (0 or absent is off, anything else nonzero is
// on) and is additionally flipped on by cmd.App when -v debug/trace is
// passed.
var DEBUG = func() bool {
	n, _ := strconv.Atoi(os.Getenv("GOLOX_TRACE"))
	return utils.IntToBool(n)
}()
