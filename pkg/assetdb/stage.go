package assetdb

import "fmt"

// Stage is a state of a build. A build only moves forward through the
// stages; Failed is terminal.
type Stage int

const (
	StageIdle Stage = iota
	StageSchemaReady
	StageStatementsReady
	StageTexturesPacked
	StageBuffersPacked
	StageMetadataLinked
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageIdle:            "Idle",
	StageSchemaReady:     "SchemaReady",
	StageStatementsReady: "StatementsReady",
	StageTexturesPacked:  "TexturesPacked",
	StageBuffersPacked:   "BuffersPacked",
	StageMetadataLinked:  "MetadataLinked",
	StageDone:            "Done",
	StageFailed:          "Failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Stage(%d)", int(s))
}

// BuildError reports the stage a build was trying to reach when it failed.
type BuildError struct {
	Stage Stage
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed reaching %s: %s", e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
