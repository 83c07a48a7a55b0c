package platform

// SetupTestBridge installs a SimulatedBridge answering with responder and a
// synchronous dispatch function. The cleanup function should be
// testing.T.Cleanup or equivalent; it registers a teardown that calls
// ResetForTest.
//
//	bridge := platform.SetupTestBridge(t.Cleanup, platform.NewScriptedResponder(platform.AnswerDeny))
func SetupTestBridge(cleanup func(func()), responder Responder) *SimulatedBridge {
	b := NewSimulatedBridge(responder)
	SetNativeBridge(b)
	RegisterDispatch(func(cb func()) { cb() })
	cleanup(ResetForTest)
	return b
}
