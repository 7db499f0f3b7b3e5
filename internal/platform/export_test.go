package platform

// SettleWindow exposes the settle period to tests.
const SettleWindow = settleWindow
