package compute

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/histogram"
)

//go:embed shaders/orbit.comp
var orbitShader string

const localSize = 64

// OpenGLBackend runs the accumulation kernel as a compute shader. Every method
// must be called on the goroutine owning the current GL context.
type OpenGLBackend struct {
	program     uint32
	seedBuf     uint32
	countBuf    uint32
	seedCap     int
	width       int
	height      int
	initialized bool
}

func NewOpenGLBackend() *OpenGLBackend {
	return &OpenGLBackend{}
}

func (g *OpenGLBackend) Name() string { return "gl" }

// Available reports whether Init has succeeded.
func (g *OpenGLBackend) Available() bool { return g.initialized }

// Init loads GL entry points, compiles the kernel and allocates a zeroed
// counter buffer. A second call only resizes the counter buffer.
func (g *OpenGLBackend) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return buddha.NewConfigError("size", [2]int{width, height}, "dimensions must be positive")
	}

	if g.program == 0 {
		if err := gl.Init(); err != nil {
			return buddha.NewResourceError("opengl context", err)
		}
		program, err := createComputeProgram(orbitShader)
		if err != nil {
			return buddha.NewResourceError("orbit shader", err)
		}
		g.program = program
		gl.GenBuffers(1, &g.seedBuf)
		gl.GenBuffers(1, &g.countBuf)

		var groups [3]int32
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, 0, &groups[0])
		buddha.Logger().Debug("opengl compute initialized",
			"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
			"max_groups_x", groups[0])
	}

	g.width, g.height = width, height
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, g.countBuf)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, width*height*4, nil, gl.DYNAMIC_COPY)
	if err := g.zeroCounts(); err != nil {
		return err
	}
	g.initialized = true
	return nil
}

// Dispatch uploads the samples and runs one invocation per sample. It waits
// for the GPU to finish, so the counts are complete when it returns.
func (g *OpenGLBackend) Dispatch(ctx context.Context, job Job) error {
	if !g.initialized {
		return errNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n := len(job.Samples)
	if n == 0 {
		return nil
	}

	// complex128 is laid out as two float64s, matching dvec2 under std430.
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, g.seedBuf)
	size := n * 16
	if n > g.seedCap {
		gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, unsafe.Pointer(&job.Samples[0]), gl.DYNAMIC_DRAW)
		g.seedCap = n
	} else {
		gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, size, unsafe.Pointer(&job.Samples[0]))
	}
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, g.seedBuf)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, g.countBuf)

	t := job.Tracer
	r := job.Region
	gl.UseProgram(g.program)
	gl.Uniform2d(g.uniform("xbounds"), r.XMin, r.XMax)
	gl.Uniform2d(g.uniform("ybounds"), r.YMin, r.YMax)
	gl.Uniform2d(g.uniform("fixedValue"), real(t.Fixed), imag(t.Fixed))
	gl.Uniform1ui(g.uniform("maxIterations"), t.MaxIterations)
	gl.Uniform1d(g.uniform("escapeRadius2"), t.EscapeRadius*t.EscapeRadius)
	gl.Uniform1ui(g.uniform("seedCount"), uint32(n))
	gl.Uniform1i(g.uniform("policy"), int32(t.Policy))
	gl.Uniform1i(g.uniform("seedMode"), int32(t.Mode))
	gl.Uniform1i(g.uniform("width"), int32(g.width))
	gl.Uniform1i(g.uniform("height"), int32(g.height))

	groups := (n + localSize - 1) / localSize
	gl.DispatchCompute(uint32(groups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.Finish()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl dispatch: error 0x%x", code)
	}
	return nil
}

// Clear zeroes the counter buffer.
func (g *OpenGLBackend) Clear() error {
	if !g.initialized {
		return errNotInitialized
	}
	return g.zeroCounts()
}

// Snapshot reads the counter buffer back into host memory.
func (g *OpenGLBackend) Snapshot() (*histogram.Snapshot, error) {
	if !g.initialized {
		return nil, errNotInitialized
	}
	counts := make([]uint32, g.width*g.height)
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, g.countBuf)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(counts)*4, gl.Ptr(counts))
	return &histogram.Snapshot{Width: g.width, Height: g.height, Counts: counts}, nil
}

func (g *OpenGLBackend) Cleanup() {
	if g.program == 0 {
		return
	}
	gl.DeleteBuffers(1, &g.seedBuf)
	gl.DeleteBuffers(1, &g.countBuf)
	gl.DeleteProgram(g.program)
	*g = OpenGLBackend{}
}

func (g *OpenGLBackend) zeroCounts() error {
	zeros := make([]uint32, g.width*g.height)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, g.countBuf)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(zeros)*4, gl.Ptr(zeros))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return buddha.NewResourceError("counter buffer", fmt.Errorf("error 0x%x", code))
	}
	return nil
}

func (g *OpenGLBackend) uniform(name string) int32 {
	return gl.GetUniformLocation(g.program, gl.Str(name+"\x00"))
}

func createComputeProgram(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}
