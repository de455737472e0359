package nav

// ScreenID names one screen of the fixed set. The string value is the wire
// form used in callback payloads.
type ScreenID string

const (
	// ScreenWelcome is the /start greeting with the entry button.
	ScreenWelcome ScreenID = "welcome"
	// ScreenMain is the main menu.
	ScreenMain ScreenID = "main"
	// ScreenPanel is the grid of password-gated items.
	ScreenPanel ScreenID = "panel"
	// ScreenItem opens one panel item; the transport plays the loading
	// animation before rendering the resolved keypad.
	ScreenItem ScreenID = "item"
	// ScreenKeypad shows the empty keypad for an item without the loading
	// animation (used to restart after a wrong password).
	ScreenKeypad ScreenID = "keypad"
	// ScreenUnlocked is the per-item menu shown after a correct password.
	ScreenUnlocked ScreenID = "unlocked"
	// ScreenOpen, ScreenGuide and ScreenDownload are the unlocked item's
	// sub-screens.
	ScreenOpen     ScreenID = "open"
	ScreenGuide    ScreenID = "guide"
	ScreenDownload ScreenID = "dl"
	// ScreenBuy is the purchase menu; ScreenPay shows one payment option.
	ScreenBuy ScreenID = "buy"
	ScreenPay ScreenID = "pay"
	// ScreenContact shows the support contact.
	ScreenContact ScreenID = "contact"
	// ScreenRoster is the admin-only subscriber listing.
	ScreenRoster ScreenID = "roster"
)

// Static screen texts. Telegram HTML parse mode; panel item and payment
// labels come from configuration.
const (
	textWelcome = "👋 <b>Welcome, %s!</b>\n\nPress the button below to open the menu."
	textMain    = "📋 <b>Main Menu</b>\n\nChoose an option:"
	textPanel   = "📱 <b>Panel</b>\n\nChoose an option:"
	textKeypad  = "🔐 <b>PASSWORD CODE</b> 🔐\n\n%s is ready!\n\n<b>Enter 4-digit password:</b>\n<code>%s</code>"
	textWrong   = "🔐 <b>PASSWORD CODE</b> 🔐\n\n❌ <b>Wrong password</b>\n\nContact: @%s"
	textUnlock  = "🎉 <b>Password Accepted!</b>\n\n✅ <b>%s</b> is now unlocked!\n\n🔓 <b>Access granted!</b>\n\nChoose an option:"
	textOpen    = "🎮 <b>%s</b>\n\nThe tool is starting. Keep this chat open and follow the prompts."
	textGuide   = "📋 <b>Instructions for %s</b>\n\n1. Open the tool\n2. Pick a game session\n3. Follow the on-screen steps"
	textDL      = "⬇️ <b>Download %s</b>\n\nThe download link will be sent to this chat shortly."
	textBuy     = "💰 <b>BUY WITH</b>"
	textContact = "📞 <b>Contact</b>\n\nReach the operator directly: @%s"

	textFallback = "🤷 That button is no longer active.\n\nUse /start to open the menu again."
	textDenied   = "⛔ This action is available only to the bot administrator."

	alertCorrect = "✅ Password correct!"
	alertWrong   = "❌ Wrong password!"

	backLabel = "🔙 Back"
)
