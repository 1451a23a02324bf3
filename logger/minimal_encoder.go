package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// ANSI colors for console output
const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorGray   = "\x1b[90m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder renders log entries as a calm single line:
//
//	15:04:05  message  key=value key=value
//
// Level is expressed through color rather than a level tag; warnings and
// errors keep a short prefix so they stand out in redirected output.
type minimalEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newMinimalEncoder() *minimalEncoder {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		pool:    bufferPool,
	}
}

func (e *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: e.Encoder.Clone(), pool: e.pool}
}

func (e *minimalEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := e.pool.Get()

	line.AppendString(colorGray)
	line.AppendString(entry.Time.Format(time.TimeOnly))
	line.AppendString(colorReset)
	line.AppendString("  ")

	switch entry.Level {
	case zapcore.WarnLevel:
		line.AppendString(colorYellow + "warn: " + colorReset)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		line.AppendString(colorRed + "error: " + colorReset)
	}

	line.AppendString(colorBold)
	line.AppendString(entry.Message)
	line.AppendString(colorReset)

	for _, f := range fields {
		line.AppendString("  ")
		line.AppendString(colorGreen)
		line.AppendString(f.Key)
		line.AppendString(colorReset)
		line.AppendByte('=')
		appendFieldValue(line, f)
	}

	line.AppendByte('\n')
	return line, nil
}

// appendFieldValue renders a zap field without the JSON machinery.
// Complex types fall back to fmt formatting; the console path is for
// humans, not parsers.
func appendFieldValue(line *buffer.Buffer, f zapcore.Field) {
	switch f.Type {
	case zapcore.StringType:
		line.AppendString(f.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		line.AppendInt(f.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		line.AppendUint(uint64(f.Integer))
	case zapcore.BoolType:
		line.AppendBool(f.Integer == 1)
	case zapcore.Float64Type, zapcore.Float32Type:
		line.AppendString(fmt.Sprintf("%v", f.Interface))
	case zapcore.DurationType:
		line.AppendString(time.Duration(f.Integer).String())
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			line.AppendString(err.Error())
		}
	default:
		line.AppendString(fmt.Sprintf("%v", f.Interface))
	}
}
