package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/pipeline"
	"github.com/oxhq/midc/internal/target"
)

func TestBuild_SingleFileSucceeds(t *testing.T) {
	src := `
		namespace app {
			func add(a: i32, b: i32) -> i32 {
				return a + b;
			}
		}
	`
	p := pipeline.New(target.Host())
	result := p.Build([]pipeline.Input{{Path: "main.mid", Src: []byte(src)}})

	require.Equal(t, pipeline.StatusSuccess, result.Status)
	require.Nil(t, result.Error)
	require.NotEmpty(t, result.SessionID)
	require.NotNil(t, result.Root)
}

func TestBuild_MergesNamespaceAcrossFiles(t *testing.T) {
	a := `
		namespace app {
			struct Box {
				let value: i32;
			}
		}
	`
	b := `
		namespace app {
			func makeBox(v: i32) -> Box {
				return Box(v);
			}
		}
	`
	p := pipeline.New(target.Host())
	result := p.Build([]pipeline.Input{
		{Path: "box.mid", Src: []byte(a)},
		{Path: "make.mid", Src: []byte(b)},
	})

	require.Equal(t, pipeline.StatusSuccess, result.Status, "unexpected failure at %s: %v", result.FailedAtStep, result.Error)
	require.Len(t, result.Files, 2)
}

func TestBuild_SyntaxErrorStopsBeforeLaterStages(t *testing.T) {
	src := `namespace app { struct { } }`

	p := pipeline.New(target.Host())
	result := p.Build([]pipeline.Input{{Path: "bad.mid", Src: []byte(src)}})

	require.Equal(t, pipeline.StatusFailed, result.Status)
	require.Equal(t, "parse", result.FailedAtStep)
	require.NotNil(t, result.Error)
}

func TestBuild_DuplicateDeclarationFailsAtDeclcheck(t *testing.T) {
	src := `
		namespace app {
			func add(a: i32, b: i32) -> i32 {
				return a + b;
			}
			func add(a: i32, b: i32) -> i32 {
				return a + b;
			}
		}
	`
	p := pipeline.New(target.Host())
	result := p.Build([]pipeline.Input{{Path: "bad.mid", Src: []byte(src)}})

	require.Equal(t, pipeline.StatusFailed, result.Status)
	require.Equal(t, "declcheck", result.FailedAtStep)
	require.NotNil(t, result.Error)
}

func TestBuild_DumpTransformCapturesEveryFunction(t *testing.T) {
	src := `
		namespace app {
			func add(a: i32, b: i32) -> i32 {
				return a + b;
			}
			struct Box {
				let value: i32;
				func get() -> i32 {
					return self.value;
				}
			}
		}
	`
	p := pipeline.New(target.Host())
	p.DumpTransform = true
	result := p.Build([]pipeline.Input{{Path: "main.mid", Src: []byte(src)}})

	require.Equal(t, pipeline.StatusSuccess, result.Status, "unexpected failure at %s: %v", result.FailedAtStep, result.Error)
	require.Len(t, result.TransformDiffs, 2)

	names := map[string]bool{}
	for _, d := range result.TransformDiffs {
		names[d.Name] = true
		require.NotEmpty(t, d.Before)
		require.NotEmpty(t, d.After)
	}
	require.True(t, names["add"])
	require.True(t, names["get"])
}

func TestBuild_NilCacheIsUntouched(t *testing.T) {
	src := `
		namespace app {
			func add(a: i32, b: i32) -> i32 {
				return a + b;
			}
		}
	`
	p := pipeline.New(target.Host())
	require.Nil(t, p.Cache)
	result := p.Build([]pipeline.Input{{Path: "main.mid", Src: []byte(src)}})
	require.Equal(t, pipeline.StatusSuccess, result.Status)
}
