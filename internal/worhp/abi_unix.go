//go:build (linux || darwin) && (amd64 || arm64)

package worhp

// Binary layout of the four WORHP data structures on LP64 platforms,
// transcribed from the C headers of WORHP 1.12 (worhp_data.h). The adapter
// never sees these structs as Go types; it reads and writes single fields
// at fixed offsets inside opaque byte blobs, which keeps the surface pinned
// to the exact library version instead of to a reconstruction of its
// headers. Offsets must be revisited when targeting another WORHP release.

// Struct sizes, used to allocate the blobs the solver initialises in place.
const (
	sizeofOptVar    = 96
	sizeofWorkspace = 10312
	sizeofParams    = 4640
	sizeofControl   = 688
)

// OptVar fields.
const (
	offOptN  = 0  // int32, number of variables
	offOptM  = 4  // int32, number of constraints
	offOptX  = 8  // *float64, decision vector, length n
	offOptG  = 16 // *float64, constraint values, length m
	offOptF  = 24 // float64, scaled objective value
	offOptXL = 32 // *float64, lower variable bounds, length n
	offOptXU = 40 // *float64, upper variable bounds, length n
	offOptGL = 48 // *float64, lower constraint bounds, length m
	offOptGU = 56 // *float64, upper constraint bounds, length m
)

// Workspace fields. DF, DG and HM are embedded WorhpMatrix structs; only
// their nnz field is touched, to request dense storage before WorhpInit.
const (
	offWspScaleObj = 312 // float64, objective scaling factor
	offWspDF       = 1040
	offWspDG       = 1184
	offWspHM       = 1328
	offMatrixNNZ   = 64 // int32, within WorhpMatrix
)

// Params fields.
const (
	offParNLPPrint        = 396  // int32, print level; -1 silences the solver
	offParInfty           = 1064 // float64, stands in for unbounded rows
	offParUserDF          = 2216 // bool (1 byte)
	offParUserDG          = 2217 // bool
	offParUserHM          = 2218 // bool
	offParUserHMStructure = 2219 // bool
	offParInitialLMest    = 2244 // bool
)

// Control fields.
const (
	offCntStatus = 0 // int32, the session status
)

// matrixInitDense is the nnz sentinel that makes WorhpInit allocate a
// matrix as dense.
const matrixInitDense int32 = -1

// User action codes for GetUserAction and DoneUserAction.
const (
	uaCallWorhp int32 = iota
	uaIterOutput
	uaEvalF
	uaEvalG
	uaEvalDF
	uaEvalDG
	uaEvalHM
	uaFidif
)

func actionCode(a Action) int32 {
	switch a {
	case ActionStep:
		return uaCallWorhp
	case ActionIterationOutput:
		return uaIterOutput
	case ActionEvalObjective:
		return uaEvalF
	case ActionEvalConstraints:
		return uaEvalG
	case ActionFiniteDifference:
		return uaFidif
	default:
		panic("worhp: unknown action")
	}
}
