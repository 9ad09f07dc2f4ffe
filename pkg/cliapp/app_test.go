package cliapp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/signkit/cli/pkg/assert"
)

type greetRequest struct {
	Name  string
	Count int
	Loud  bool
	Tags  []string
}

var (
	nameArgument = Argument{
		Key:         "name",
		Flags:       []string{"--name", "-n"},
		Description: "Who to greet",
		EnvVar:      "CLIAPP_TEST_NAME",
	}
	countArgument = Argument{
		Key:         "count",
		Flags:       []string{"--count"},
		Description: "How many times",
		Type:        Int,
		Default:     []string{"1"},
	}
	loudArgument = Argument{
		Key:         "loud",
		Flags:       []string{"--loud"},
		Description: "Shout",
		Switch:      true,
	}
	tagArgument = Argument{
		Key:         "tags",
		Flags:       []string{"--tag"},
		Description: "Tags to attach",
		Multiple:    true,
		Choices:     []string{"a", "b", "c"},
	}
)

type testApp struct {
	app      *App
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	received []greetRequest
	handler  func(ctx *Context, request greetRequest) error
}

func newTestApp(t *testing.T) *testApp {
	result := &testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	action := NewAction[greetRequest]("hello").
		Describe("Say hello\n\nLonger description of saying hello").
		Required(nameArgument).
		Optional(countArgument, loudArgument, tagArgument).
		Bind(func(values Values) (greetRequest, error) {
			return greetRequest{
				Name:  values.String("name"),
				Count: values.Int("count"),
				Loud:  values.Bool("loud"),
				Tags:  values.Strings("tags"),
			}, nil
		}).
		Run(func(ctx *Context, request greetRequest) error {
			result.received = append(result.received, request)
			if result.handler != nil {
				return result.handler(ctx, request)
			}
			return nil
		}).
		MustBuild()

	tool := NewTool("greet", "Greeting actions")
	err := tool.Register(action)
	assert.NoError(t, err)

	result.app = NewApp("signkit", "test", "0.0.1")
	result.app.Stdout = result.stdout
	result.app.Stderr = result.stderr
	err = result.app.AddTool(tool)
	assert.NoError(t, err)
	return result
}

func (a *testApp) run(args ...string) int {
	return a.app.Run(context.Background(), append([]string{"signkit"}, args...))
}

func TestDispatchCallsHandlerWithDeclaredValues(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--name", "world", "--count", "3",
		"--loud", "--tag", "a", "--tag", "c")

	assert.Equal(t, code, 0)
	assert.Equal(t, len(app.received), 1)
	assert.DeepEqual(t, app.received[0], greetRequest{
		Name: "world", Count: 3, Loud: true, Tags: []string{"a", "c"},
	})
}

func TestDispatchUsesDefaultsAndAliases(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "-n", "world")

	assert.Equal(t, code, 0)
	assert.DeepEqual(t, app.received, []greetRequest{{Name: "world", Count: 1}})
}

func TestDispatchReadsEnvironment(t *testing.T) {
	t.Setenv("CLIAPP_TEST_NAME", "from-env")
	app := newTestApp(t)

	code := app.run("greet", "hello")

	assert.Equal(t, code, 0)
	assert.Equal(t, app.received[0].Name, "from-env")
}

func TestMissingRequiredArgument(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello")

	assert.Equal(t, code, 2)
	assert.Equal(t, len(app.received), 0)
	assert.Contains(t, app.stderr.String(), "Missing value NAME")
	assert.Contains(t, app.stderr.String(), "CLIAPP_TEST_NAME")
}

func TestConverterErrorStopsBeforeHandler(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--name", "x", "--count", "many")

	assert.Equal(t, code, 2)
	assert.Equal(t, len(app.received), 0)
	assert.Contains(t, app.stderr.String(), "--count")
}

func TestInvalidChoice(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--name", "x", "--tag", "z")

	assert.Equal(t, code, 2)
	assert.Equal(t, len(app.received), 0)
	assert.Contains(t, app.stderr.String(), "invalid choice")
}

func TestUnknownFlag(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--name", "x", "--unknown")

	assert.Equal(t, code, 2)
	assert.Equal(t, len(app.received), 0)
}

func TestMissingActionExitsWithUsage(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, app.run("greet"), 2)
	assert.Equal(t, app.run(), 2)
	assert.Equal(t, app.run("unknown-tool"), 2)
	assert.Equal(t, len(app.received), 0)
}

func TestHelpSucceeds(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--help")

	assert.Equal(t, code, 0)
	assert.Contains(t, app.stdout.String(), `required arguments for "hello"`)
	assert.Contains(t, app.stdout.String(), "--name")
}

func TestAppErrorPropagatesProcessExitCode(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		process, err := ctx.Executor.Capture(ctx, []string{"sh", "-c", "exit 65"})
		if err != nil {
			return err
		}
		return NewAppError("Greeting failed", process)
	}

	code := app.run("greet", "hello", "--name", "x", "--disable-logging")

	assert.Equal(t, code, 65)
	assert.Contains(t, app.stderr.String(), "Greeting failed")
}

func TestAppErrorWithoutProcess(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		return NewAppError("Nothing to greet", nil)
	}

	assert.Equal(t, app.run("greet", "hello", "--name", "x"), 1)
	assert.Contains(t, app.stderr.String(), "Nothing to greet")
}

func TestUnexpectedHandlerError(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		return errors.New("unexpected")
	}

	assert.Equal(t, app.run("greet", "hello", "--name", "x"), 1)
	assert.Contains(t, app.stderr.String(), "unexpected")
}

func TestInvalidLogStream(t *testing.T) {
	app := newTestApp(t)

	code := app.run("greet", "hello", "--name", "x", "--log-stream", "file")

	assert.Equal(t, code, 2)
	assert.Equal(t, len(app.received), 0)
}

func TestLoggingGoesToSelectedStream(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		ctx.Logger.Info("greeting " + request.Name)
		return nil
	}

	code := app.run("greet", "hello", "--name", "x", "--log-stream", "stdout")

	assert.Equal(t, code, 0)
	assert.Contains(t, app.stdout.String(), "greeting x")
	assert.Equal(t, app.stderr.String(), "")
}

func TestDisableLogging(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		ctx.Logger.Info("greeting " + request.Name)
		return nil
	}

	code := app.run("greet", "hello", "--name", "x", "--disable-logging")

	assert.Equal(t, code, 0)
	assert.Equal(t, app.stderr.String(), "")
}

func TestCanceledContext(t *testing.T) {
	app := newTestApp(t)
	app.handler = func(ctx *Context, request greetRequest) error {
		return ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := app.app.Run(ctx, []string{"signkit", "greet", "hello", "--name", "x"})

	assert.Equal(t, code, 130)
}
