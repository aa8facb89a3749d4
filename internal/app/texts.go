package app

// User-facing texts. The bot speaks Ukrainian to respondents and to the
// operator alike.

// Main menu button labels. They double as command aliases, so pressing a
// button routes like typing the command.
const (
	BtnApply    = "📝 Подати заявку"
	BtnAbout    = "ℹ️ Про нас"
	BtnFAQ      = "❓ Часті питання"
	BtnContacts = "💰 Оплата та контакти"
)

const (
	textGreeting = "👋 Вітаємо!\n" +
		"Цей бот приймає заявки на верифікацію.\n" +
		"Оберіть пункт меню нижче, щоб почати."

	textAbout = "ℹ️ *Про нас*\n" +
		"Ми допомагаємо пройти верифікацію швидко та без зайвих питань.\n" +
		"Щоб подати заявку, натисніть «" + BtnApply + "»."

	textFAQ = "❓ *Часті питання*\n\n" +
		"*Скільки триває розгляд заявки?*\n" +
		"Зазвичай до 24 годин.\n\n" +
		"*Які документи потрібні?*\n" +
		"Паспорт, ID-картка або водійське посвідчення.\n\n" +
		"*Як зі мною зв'яжуться?*\n" +
		"Менеджер напише вам у Telegram після розгляду заявки."

	textContacts = "💰 *Оплата та контакти*\n" +
		"Оплата обговорюється з менеджером після розгляду заявки.\n" +
		"По будь яким питанням можете писати менеджеру в описі групи."

	textConfirmation = "✅ Дякуємо, вашу заявку отримано!\n" +
		"🔗 Долучайтесь до нашої групи з завданнями:\n" +
		"👉 %s\n" +
		"❗ По будь яким питанням можете писати менеджеру в описі групи."

	textDMButton = "Написати користувачу"

	textStoreFailureNotice = "Помилка запису заявки: %s"
)

// Broadcast conversation texts, operator-only.
const (
	textBroadcastAllPrompt = "Надішліть повідомлення для розсилки всім респондентам:"

	textBroadcastIDsPrompt = "Надішліть список ID отримувачів (цифрами, через кому або пробіл):"

	textBroadcastIDsRetry = "Не знайшов жодного ID у повідомленні. " +
		"Надішліть список ID цифрами:"

	textBroadcastPayloadPrompt = "Тепер надішліть повідомлення для розсилки:"

	textBroadcastNoRecipients = "Немає жодного отримувача для розсилки."

	textBroadcastReadFail = "Не вдалося прочитати список отримувачів: %s"

	textBroadcastSummary = "Розсилку завершено: доставлено %d, помилок %d."
)
