package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reduxConnected(t *testing.T, code string) bool {
	t.Helper()
	file := parseFile(t, code)
	imports := Bindings(file.Statements, fakeResolver{}, testFile)
	return ReduxConnected(file.Tokens, imports, "")
}

func TestReduxConnected(t *testing.T) {
	assert.True(t, reduxConnected(t, `
import { connect } from "react-redux";
const Counter = () => null;
export default connect(mapState)(Counter);
`))
}

func TestReduxConnected_NoDefaultExport(t *testing.T) {
	assert.False(t, reduxConnected(t, `
import { connect } from "react-redux";
const Counter = () => null;
export const Connected = connect(mapState)(Counter);
`))
}

func TestReduxConnected_DefaultExportOfOtherValue(t *testing.T) {
	assert.False(t, reduxConnected(t, `
import { connect } from "react-redux";
const Counter = () => null;
export default Counter;
`))
}

func TestReduxConnected_Alias(t *testing.T) {
	assert.True(t, reduxConnected(t, `
import { connect as wire } from "react-redux";
export default wire(mapState)(Counter);
`))
}

func TestReduxConnected_NotFromRedux(t *testing.T) {
	assert.False(t, reduxConnected(t, `
import { connect } from "./db";
export default connect(mapState)(Counter);
`))
}

func TestReduxConnected_LastAliasWins(t *testing.T) {
	code := `
import { connect as first } from "react-redux";
import { connect as second } from "react-redux";
export default first(mapState)(Counter);
`
	assert.False(t, reduxConnected(t, code))
}

func TestReduxConnected_CustomPackage(t *testing.T) {
	file := parseFile(t, `
import { connect } from "@acme/store";
export default connect()(Widget);
`)
	imports := Bindings(file.Statements, fakeResolver{}, testFile)

	assert.True(t, ReduxConnected(file.Tokens, imports, "@acme/store"))
	assert.False(t, ReduxConnected(file.Tokens, imports, ""))
}
