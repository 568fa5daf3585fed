package argclass

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isobit/argclass/cast"
)

func TestHelpUsage(t *testing.T) {
	class := NewClass("T").SetUsage("%(prog)s test")
	help, err := FormatHelp(class, Prog("TEST"))
	require.NoError(t, err)
	assert.Equal(t, "usage: TEST test\n\noptions:\n  -h, --help  show this help message and exit\n", help)

	help, err = FormatHelp(class, Prog("TEST"), Usage("%(prog)s other"))
	require.NoError(t, err)
	assert.Equal(t, "usage: TEST other\n\noptions:\n  -h, --help  show this help message and exit\n", help)
}

func TestHelpEpilog(t *testing.T) {
	class := NewClass("T").SetEpilog("test")
	help, err := FormatHelp(class, Prog("TEST"))
	require.NoError(t, err)
	assert.Equal(t, "usage: TEST [-h]\n\noptions:\n  -h, --help  show this help message and exit\n\ntest\n", help)
}

func TestHelpDescription(t *testing.T) {
	class := NewClass("T").SetDoc("Does x.")
	help, err := FormatHelp(class, Prog("TEST"))
	require.NoError(t, err)
	assert.Equal(t, "usage: TEST [-h]\n\nDoes x.\n\noptions:\n  -h, --help  show this help message and exit\n", help)

	help, err = FormatHelp(class, Prog("TEST"), Description("Does y."))
	require.NoError(t, err)
	assert.Contains(t, help, "\n\nDoes y.\n\n")

	// the doc is not inherited
	help, err = FormatHelp(NewClass("Sub", class), Prog("TEST"))
	require.NoError(t, err)
	assert.NotContains(t, help, "Does x.")
}

func TestHelpGroupOrder(t *testing.T) {
	class := NewClass("G").
		Field("a", cast.Int(), Arg("-a").With(Group("first"), Help("in first"))).
		Field("b", cast.Int(), Arg("-b").With(Group("second"), Help("in second"))).
		Field("c", cast.Bool(), Arg("-c").With(Help("plain"))).
		Field("d", cast.Int(), Arg("-d").With(Hidden(true)))

	help, err := FormatHelp(class, Prog("prog"), GroupOrder("second", "missing"))
	require.NoError(t, err)
	expected := "usage: prog [-h] [-c] [-b B] [-a A]\n" +
		"\n" +
		"options:\n" +
		"  -h, --help  show this help message and exit\n" +
		"  -c          plain\n" +
		"\n" +
		"second:\n" +
		"  -b B  in second\n" +
		"\n" +
		"first:\n" +
		"  -a A  in first\n"
	assert.Equal(t, expected, help)

	usage, err := FormatUsage(class, Prog("prog"))
	require.NoError(t, err)
	assert.Equal(t, "usage: prog [-h] [-c] [-a A] [-b B]\n", usage)
}

func TestNewParserReset(t *testing.T) {
	class := NewClass("R").Field("a", cast.Int(), Arg("-a").With(Default(1)))

	o := New(class)
	_, err := NewParser(o)
	require.NoError(t, err)
	assert.True(t, o.Has("a"))

	_, err = NewParser(o, Reset())
	require.NoError(t, err)
	assert.False(t, o.Has("a"))

	o.ApplyDefaults()
	assert.True(t, o.Has("a"))
}

func TestNewParserConflict(t *testing.T) {
	class := NewClass("C").
		Field("a", cast.Int(), Arg("-a")).
		Field("b", cast.Int(), Arg("-a"))

	_, err := NewParser(class, Prog("prog"))
	var ce *ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "C", ce.Class)
	assert.Equal(t, "b", ce.Field)
}
