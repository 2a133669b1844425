//go:build (linux || darwin) && (amd64 || arm64)

package worhp

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// nativeAPI drives a WORHP build loaded through the platform's dynamic
// linker. All entry points operate on the opaque blobs of a nativeSession;
// the Go side never declares the solver's structs, it only touches the
// pinned field offsets from the abi file.
type nativeAPI struct {
	handle uintptr

	worhpPreInit    func(opt, wsp, par, cnt unsafe.Pointer)
	worhpInit       func(opt, wsp, par, cnt unsafe.Pointer)
	readParams      func(n *int32, file string, par unsafe.Pointer)
	getUserAction   func(cnt unsafe.Pointer, action int32) bool
	doneUserAction  func(cnt unsafe.Pointer, action int32)
	iterationOutput func(opt, wsp, par, cnt unsafe.Pointer)
	worhp           func(opt, wsp, par, cnt unsafe.Pointer)
	statusMsg       func(opt, wsp, par, cnt unsafe.Pointer)
	worhpFree       func(opt, wsp, par, cnt unsafe.Pointer)
	worhpFidif      func(opt, wsp, par, cnt unsafe.Pointer)
}

// loadNative opens the shared library at path and binds every required
// entry point. Callers hold loadMu. The handle is kept open for the life
// of the process; it is only closed again when binding fails halfway.
func loadNative(path string) (API, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &LoadError{Path: path, Step: LoadStepOpen, Cause: err}
	}

	api := &nativeAPI{handle: handle}
	targets := map[string]any{
		"WorhpPreInit":    &api.worhpPreInit,
		"WorhpInit":       &api.worhpInit,
		"ReadParams":      &api.readParams,
		"GetUserAction":   &api.getUserAction,
		"DoneUserAction":  &api.doneUserAction,
		"IterationOutput": &api.iterationOutput,
		"Worhp":           &api.worhp,
		"StatusMsg":       &api.statusMsg,
		"WorhpFree":       &api.worhpFree,
		"WorhpFidif":      &api.worhpFidif,
	}
	for _, name := range RequiredSymbols() {
		addr, err := purego.Dlsym(handle, name)
		if err != nil {
			_ = purego.Dlclose(handle)
			return nil, &LoadError{Path: path, Step: LoadStepBind, Symbol: name, Cause: err}
		}
		purego.RegisterFunc(targets[name], addr)
	}
	return api, nil
}

// nativeSession owns the four solver structs as raw allocations. The blobs
// are pinned so the solver may keep internal pointers into them between
// calls; the float views alias solver-allocated arrays and stay valid from
// Init until Free.
type nativeSession struct {
	opt []byte
	wsp []byte
	par []byte
	cnt []byte
	pin runtime.Pinner

	x, xl, xu []float64
	g, gl, gu []float64

	sized  bool
	inited bool
	freed  bool
}

func (nb *nativeAPI) session(s Session) *nativeSession {
	ns, ok := s.(*nativeSession)
	if !ok {
		panic("worhp: session does not belong to this library")
	}
	if ns.freed {
		panic("worhp: session used after Free")
	}
	return ns
}

func (nb *nativeAPI) PreInit() Session {
	ns := &nativeSession{
		opt: make([]byte, sizeofOptVar),
		wsp: make([]byte, sizeofWorkspace),
		par: make([]byte, sizeofParams),
		cnt: make([]byte, sizeofControl),
	}
	ns.pin.Pin(&ns.opt[0])
	ns.pin.Pin(&ns.wsp[0])
	ns.pin.Pin(&ns.par[0])
	ns.pin.Pin(&ns.cnt[0])
	nb.worhpPreInit(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
	return ns
}

func (nb *nativeAPI) ReadParams(s Session, path string) int {
	ns := nb.session(s)
	var n int32
	nb.readParams(&n, path, ns.parPtr())
	return int(n)
}

func (nb *nativeAPI) Init(s Session) {
	ns := nb.session(s)
	if !ns.sized {
		panic("worhp: Init called before SetDims")
	}
	nb.worhpInit(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
	ns.inited = true
	if ns.Status().Running() {
		ns.mapBuffers()
	}
}

func (nb *nativeAPI) GetUserAction(s Session, a Action) bool {
	ns := nb.session(s)
	return nb.getUserAction(ns.cntPtr(), actionCode(a))
}

func (nb *nativeAPI) DoneUserAction(s Session, a Action) {
	if a == ActionStep || a == ActionFiniteDifference {
		panic("worhp: " + a.String() + " must not be acknowledged")
	}
	ns := nb.session(s)
	nb.doneUserAction(ns.cntPtr(), actionCode(a))
}

func (nb *nativeAPI) IterationOutput(s Session) {
	ns := nb.session(s)
	nb.iterationOutput(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
}

func (nb *nativeAPI) Step(s Session) {
	ns := nb.session(s)
	nb.worhp(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
}

func (nb *nativeAPI) StatusMessage(s Session) {
	ns := nb.session(s)
	nb.statusMsg(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
}

func (nb *nativeAPI) Free(s Session) {
	ns, ok := s.(*nativeSession)
	if !ok {
		panic("worhp: session does not belong to this library")
	}
	if ns.freed {
		return
	}
	nb.worhpFree(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
	ns.x, ns.xl, ns.xu = nil, nil, nil
	ns.g, ns.gl, ns.gu = nil, nil, nil
	ns.pin.Unpin()
	ns.freed = true
}

func (nb *nativeAPI) FiniteDifference(s Session) {
	ns := nb.session(s)
	nb.worhpFidif(ns.optPtr(), ns.wspPtr(), ns.parPtr(), ns.cntPtr())
}

func (ns *nativeSession) optPtr() unsafe.Pointer { return unsafe.Pointer(&ns.opt[0]) }
func (ns *nativeSession) wspPtr() unsafe.Pointer { return unsafe.Pointer(&ns.wsp[0]) }
func (ns *nativeSession) parPtr() unsafe.Pointer { return unsafe.Pointer(&ns.par[0]) }
func (ns *nativeSession) cntPtr() unsafe.Pointer { return unsafe.Pointer(&ns.cnt[0]) }

func (ns *nativeSession) SetDims(n, m int) {
	if ns.inited {
		panic("worhp: SetDims after Init")
	}
	putI32(ns.opt, offOptN, int32(n))
	putI32(ns.opt, offOptM, int32(m))
	putI32(ns.wsp, offWspDF+offMatrixNNZ, matrixInitDense)
	putI32(ns.wsp, offWspDG+offMatrixNNZ, matrixInitDense)
	putI32(ns.wsp, offWspHM+offMatrixNNZ, matrixInitDense)
	ns.sized = true
}

func (ns *nativeSession) N() int { return int(getI32(ns.opt, offOptN)) }
func (ns *nativeSession) M() int { return int(getI32(ns.opt, offOptM)) }

func (ns *nativeSession) SetDerivativeFreeMode() {
	putBool(ns.par, offParUserDF, false)
	putBool(ns.par, offParUserDG, false)
	putBool(ns.par, offParUserHM, false)
	putBool(ns.par, offParUserHMStructure, false)
	putBool(ns.par, offParInitialLMest, true)
}

func (ns *nativeSession) SuppressOutput() {
	putI32(ns.par, offParNLPPrint, -1)
}

func (ns *nativeSession) X() []float64  { return ns.buffer(ns.x) }
func (ns *nativeSession) XL() []float64 { return ns.buffer(ns.xl) }
func (ns *nativeSession) XU() []float64 { return ns.buffer(ns.xu) }
func (ns *nativeSession) G() []float64  { return ns.buffer(ns.g) }
func (ns *nativeSession) GL() []float64 { return ns.buffer(ns.gl) }
func (ns *nativeSession) GU() []float64 { return ns.buffer(ns.gu) }

func (ns *nativeSession) F() float64     { return getF64(ns.opt, offOptF) }
func (ns *nativeSession) SetF(v float64) { putF64(ns.opt, offOptF, v) }

func (ns *nativeSession) ScaleObj() float64 { return getF64(ns.wsp, offWspScaleObj) }
func (ns *nativeSession) Infinity() float64 { return getF64(ns.par, offParInfty) }
func (ns *nativeSession) Status() Status    { return Status(getI32(ns.cnt, offCntStatus)) }

func (ns *nativeSession) buffer(v []float64) []float64 {
	if !ns.inited || ns.freed {
		panic("worhp: session buffers are only valid between Init and Free")
	}
	return v
}

// mapBuffers creates float views over the arrays WorhpInit allocated, using
// the pointers it wrote into the OptVar blob.
func (ns *nativeSession) mapBuffers() {
	n, m := ns.N(), ns.M()
	ns.x = floatView(ns.opt, offOptX, n)
	ns.xl = floatView(ns.opt, offOptXL, n)
	ns.xu = floatView(ns.opt, offOptXU, n)
	ns.g = floatView(ns.opt, offOptG, m)
	ns.gl = floatView(ns.opt, offOptGL, m)
	ns.gu = floatView(ns.opt, offOptGU, m)
}

func floatView(b []byte, off, n int) []float64 {
	p := *(*unsafe.Pointer)(unsafe.Pointer(&b[off]))
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(p), n)
}

func getI32(b []byte, off int) int32    { return *(*int32)(unsafe.Pointer(&b[off])) }
func putI32(b []byte, off int, v int32) { *(*int32)(unsafe.Pointer(&b[off])) = v }
func getF64(b []byte, off int) float64  { return *(*float64)(unsafe.Pointer(&b[off])) }
func putF64(b []byte, off int, v float64) {
	*(*float64)(unsafe.Pointer(&b[off])) = v
}

func putBool(b []byte, off int, v bool) {
	if v {
		b[off] = 1
	} else {
		b[off] = 0
	}
}
