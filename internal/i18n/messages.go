package i18n

// Key identifies a translatable message.
type Key string

const (
	// registration
	ChooseLanguage       Key = "choose_language"
	AskName              Key = "ask_name"
	AskAge               Key = "ask_age"
	AskGender            Key = "ask_gender"
	AskPreference        Key = "ask_preference"
	AskLocation          Key = "ask_location"
	ChooseZone           Key = "choose_zone"
	AskInterests         Key = "ask_interests"
	AskPhoto             Key = "ask_photo"
	AskBio               Key = "ask_bio"
	RegistrationComplete Key = "registration_complete"

	// validation
	ErrName          Key = "err_name"
	ErrAge           Key = "err_age"
	ErrZone          Key = "err_zone"
	ErrLocation      Key = "err_location"
	ErrTooManyTags   Key = "err_too_many_tags"
	ErrBioLength     Key = "err_bio_length"
	ErrReportReason  Key = "err_report_reason"
	ErrUseButtons    Key = "err_use_buttons"
	ErrSendPhoto     Key = "err_send_photo"
	ErrUnavailable   Key = "err_unavailable"
	ErrStoreDown     Key = "err_store_down"
	ErrThrottled     Key = "err_throttled"
	ErrNeedRegister  Key = "err_need_register"
	ErrNeedLocation  Key = "err_need_location"
	ErrCannotSelf    Key = "err_cannot_self"
	ErrUnknownAction Key = "err_unknown_action"

	// browsing & matching
	MainMenu       Key = "main_menu"
	QuotaExceeded  Key = "quota_exceeded"
	NoCandidates   Key = "no_candidates"
	LikeSent       Key = "like_sent"
	ItsAMatch      Key = "its_a_match"
	NewMatch       Key = "new_match"
	NoMatches      Key = "no_matches"
	MatchesHeader  Key = "matches_header"
	DistanceAway   Key = "distance_away"
	ReportPrompt   Key = "report_prompt"
	ReportReceived Key = "report_received"

	// settings
	Settings         Key = "settings"
	LanguageChanged  Key = "language_changed"
	StealthStatus    Key = "stealth_status"
	NotifyStatus     Key = "notify_status"
	UpdateLocation   Key = "update_location"
	LocationUpdated  Key = "location_updated"
	UpdateBio        Key = "update_bio"
	BioUpdated       Key = "bio_updated"
	UpdateInterests  Key = "update_interests"
	InterestsUpdated Key = "interests_updated"
	Cancelled        Key = "cancelled"
	Help             Key = "help"
	Safety           Key = "safety"
	NotSet           Key = "not_set"
	WordOn           Key = "word_on"
	WordOff          Key = "word_off"
	LanguageName     Key = "language_name"

	// buttons
	BtnMale          Key = "btn_male"
	BtnFemale        Key = "btn_female"
	BtnOther         Key = "btn_other"
	BtnPrefMale      Key = "btn_pref_male"
	BtnPrefFemale    Key = "btn_pref_female"
	BtnPrefBoth      Key = "btn_pref_both"
	BtnShareLocation Key = "btn_share_location"
	BtnChooseZone    Key = "btn_choose_zone"
	BtnDone          Key = "btn_done"
	BtnSkip          Key = "btn_skip"
	BtnCancel        Key = "btn_cancel"
	BtnLike          Key = "btn_like"
	BtnDislike       Key = "btn_dislike"
	BtnReport        Key = "btn_report"
	BtnBrowse        Key = "btn_browse"
	BtnMatches       Key = "btn_matches"
	BtnSettings      Key = "btn_settings"
	BtnHelp          Key = "btn_help"
	BtnMore          Key = "btn_more"
	BtnChangeLang    Key = "btn_change_lang"
	BtnUpdateLoc     Key = "btn_update_location"
	BtnEditBio       Key = "btn_edit_bio"
	BtnEditInterests Key = "btn_edit_interests"
	BtnStealth       Key = "btn_stealth"
	BtnNotify        Key = "btn_notify"
	BtnBack          Key = "btn_back"
)

type translations map[Lang]string

var messages = map[Key]translations{
	ChooseLanguage: {
		English: "🌍 <b>Habesha Match</b>\n\nPlease choose your language / ቋንቋ ይምረጡ:",
	},
	AskName: {
		English: "👤 <b>What's your name?</b>\n\nEnter your full name:",
		Amharic: "👤 <b>ስምህ ምን ይባላል?</b>\n\nሙሉ ስምህን አስገባ:",
	},
	AskAge: {
		English: "🔞 <b>How old are you?</b>\n\nEnter your age (18+):",
		Amharic: "🔞 <b>ዕድሜህ ስንት ነው?</b>\n\nዕድሜህን በቁጥር አስገባ (18+):",
	},
	AskGender: {
		English: "⚥ <b>What's your gender?</b>",
		Amharic: "⚥ <b>ጾታህ ምንድነው?</b>",
	},
	AskPreference: {
		English: "❤️ <b>Who are you interested in?</b>",
		Amharic: "❤️ <b>በማን ላይ ፍላጎት አለህ?</b>",
	},
	AskLocation: {
		English: "📍 <b>Share your location</b>\n\nFor better matching, share your location.\nOr choose your sub-city.",
		Amharic: "📍 <b>አካባቢህን አሳውቀኝ</b>\n\nለተሻለ ተመሳሳይነት አካባቢህን ሼር አርግ።\nወይም ንኡስ ከተማህን ምረጥ።",
	},
	ChooseZone: {
		English: "🏙 <b>Choose your sub-city.</b>",
		Amharic: "🏙 <b>ንኡስ ከተማህን ምረጥ።</b>",
	},
	AskInterests: {
		English: "🎯 <b>Choose your interests</b>\n\nSelect what interests you from below.\nYou can select multiple. Press 'Done' when finished.",
		Amharic: "🎯 <b>ፍላጎቶችህን ምረጥ</b>\n\nበታች ካሉት ውስጥ የሚያስደስትህን ምረጥ።\nብዙ ማረግ ትችላለህ። ሲጨርስ 'ተጠናቅቋል' የሚለውን ይጫኑ።",
	},
	AskPhoto: {
		English: "📸 <b>Send your photo</b>\n\nSend a clear photo of yourself.\nOne photo is enough for now.",
		Amharic: "📸 <b>ፎቶህን ላክ</b>\n\nለመልክህ ጥሩ ፎቶ ላክ።\nአንድ ፎቶ በቂ ነው።",
	},
	AskBio: {
		English: "📝 <b>Introduce yourself</b>\n\nWrite a short bio (under 500 characters).\nWhat are you looking for? What makes you happy?",
		Amharic: "📝 <b>ራስህን አስተዋውቅ</b>\n\nአጭር መግለጫ ፅፍ (ከ 500 ፊደላት በታች)።\nምን ይፈልጋሉ? ምን ያስደስትዎታል?",
	},
	RegistrationComplete: {
		English: "🎉 <b>Registration Complete!</b>\n\nYou can now browse people in your area.",
		Amharic: "🎉 <b>ምዝገባው ተጠናቅቋል!</b>\n\nአሁን በአካባቢህ ያሉ ሰዎችን ማየት ትችላለህ።",
	},

	ErrName: {
		English: "Please enter your name (up to 200 characters).",
		Amharic: "እባክህ ስምህን አስገባ (እስከ 200 ፊደላት)።",
	},
	ErrAge: {
		English: "Please enter a valid age (18 and above)",
		Amharic: "እባክህ ትክክለኛ ዕድሜ አስገባ (18 እና ከዚያ በላይ)",
	},
	ErrZone: {
		English: "Unknown sub-city. Please pick one from the list.",
		Amharic: "ያልታወቀ ንኡስ ከተማ። እባክህ ከዝርዝሩ ምረጥ።",
	},
	ErrLocation: {
		English: "That location doesn't look right. Please share it again.",
		Amharic: "አካባቢው ትክክል አይመስልም። እባክህ እንደገና ላክ።",
	},
	ErrTooManyTags: {
		English: "You can pick up to %d interests.",
		Amharic: "እስከ %d ፍላጎቶች ብቻ መምረጥ ትችላለህ።",
	},
	ErrBioLength: {
		English: "Bio is too long. Maximum 500 characters.",
		Amharic: "መግለጫው በጣም ረጅም ነው። 500 ፊደላት ብቻ።",
	},
	ErrReportReason: {
		English: "Please describe the reason (up to 500 characters).",
		Amharic: "እባክህ ምክንያቱን ፅፍ (እስከ 500 ፊደላት)።",
	},
	ErrUseButtons: {
		English: "Please use the buttons above.",
		Amharic: "እባክህ ከላይ ያሉትን ቁልፎች ተጠቀም።",
	},
	ErrSendPhoto: {
		English: "Please send a photo.",
		Amharic: "እባክህ ፎቶ ላክ።",
	},
	ErrUnavailable: {
		English: "This profile is no longer available.",
		Amharic: "ይህ መገለጫ አሁን አይገኝም።",
	},
	ErrStoreDown: {
		English: "Something went wrong on our side. Please try again.",
		Amharic: "ችግር ተፈጥሯል። እባክህ እንደገና ሞክር።",
	},
	ErrThrottled: {
		English: "Slow down a little, please.",
		Amharic: "እባክህ ትንሽ ቀስ በል።",
	},
	ErrNeedRegister: {
		English: "Please register first with /start",
		Amharic: "እባክህ መጀመሪያ በ /start ተመዝገብ",
	},
	ErrNeedLocation: {
		English: "Please set your location in settings first.",
		Amharic: "እባክህ መጀመሪያ አካባቢህን አዘምን።",
	},
	ErrCannotSelf: {
		English: "You can't do that to yourself.",
		Amharic: "ይህን በራስህ ላይ ማድረግ አትችልም።",
	},
	ErrUnknownAction: {
		English: "Sorry, I didn't understand that.",
		Amharic: "ይቅርታ፣ አልገባኝም።",
	},

	MainMenu: {
		English: "🏠 <b>Main Menu - Habesha Match</b>\n\nDiscover new people, match, and connect.\n\nChoose an option below:",
		Amharic: "🏠 <b>ዋና ገጽ - ሀበሻ ማች</b>\n\nአዲስ ሰዎችን ያግኙ፣ ያግኙ እና ይተዋወቁ።\n\nከታች ያለውን ይምረጡ፦",
	},
	QuotaExceeded: {
		English: "Daily limit reached. Try tomorrow.",
		Amharic: "የዛሬው ገደብ አልቋል። ነገ ይሞክሩ።",
	},
	NoCandidates: {
		English: "No people in your area. Wait and try again.",
		Amharic: "በአካባቢህ ምንም ሰዎች የሉም። ቆየት እና እንደገና ሞክር።",
	},
	LikeSent: {
		English: "👍 Like sent",
		Amharic: "👍 አስተያየት ተልኳል",
	},
	ItsAMatch: {
		English: "🎉 <b>It's a Match!</b>\n\nYou can now send messages.",
		Amharic: "🎉 <b>ተመሳሳይነት ተገኘ!</b>\n\nአሁን መልዕክት መላክ ትችላላችሁ።",
	},
	NewMatch: {
		English: "🎉 <b>New Match with %s!</b>\n\nYou can now send messages.",
		Amharic: "🎉 <b>ከ %s ጋር አዲስ ተመሳሳይነት!</b>\n\nአሁን መልዕክት መላክ ትችላላችሁ።",
	},
	NoMatches: {
		English: "🤷 <b>No matches yet</b>\n\nBrowse people and send likes.",
		Amharic: "🤷 <b>እስካሁን ምንም ተመሳሳይነት የለም</b>\n\nሰዎችን ይመልከቱ እና አስተያየት ይስጡ።",
	},
	MatchesHeader: {
		English: "💌 <b>Your Matches</b>\n\n",
		Amharic: "💌 <b>ተመሳሳይነቶችህ</b>\n\n",
	},
	DistanceAway: {
		English: "📏 %.1f km away",
		Amharic: "📏 %.1f ኪ.ሜ ርቀት",
	},
	ReportPrompt: {
		English: "⚠️ <b>Report User</b>\n\nWhy are you reporting this user?\n\n1. Offensive or abusive language\n2. False information\n3. Suspicious behavior\n4. Harassment\n5. Other\n\nWrite the reason:",
		Amharic: "⚠️ <b>ሪፖርት ማድረግ</b>\n\nለምን ይህን ሰው ሪፖርት ማድረግ ትፈልጋለህ?\n\n1. ጠቃሚ ወይም አስጸያፊ ቋንቋ\n2. ሐሰተኛ መረጃ\n3. ጠያቂ ባህሪ\n4. አለመስማማት\n5. ሌላ\n\nምክንያቱን ፅፍ፦",
	},
	ReportReceived: {
		English: "✅ Report submitted. Thank you.",
		Amharic: "✅ ሪፖርት ቀርቧል። እናመሰግናለን።",
	},

	Settings: {
		English: "⚙️ <b>Settings</b>\n\n• Language: %s\n• Location: %s\n• Stealth Mode: %s\n• Notifications: %s\n\nSelect below to change:",
		Amharic: "⚙️ <b>ማስተካከያዎች</b>\n\n• ቋንቋ: %s\n• አካባቢ: %s\n• ስልክ ሁነት: %s\n• ማሳወቂያዎች: %s\n\nከታች ለመቀየር ይምረጡ፦",
	},
	LanguageChanged: {
		English: "✅ Language changed to English",
		Amharic: "✅ ቋንቋ ወደ አማርኛ ተቀይሯል",
	},
	StealthStatus: {
		English: "✅ Stealth Mode: %s",
		Amharic: "✅ ስልክ ሁነት: %s",
	},
	NotifyStatus: {
		English: "✅ Match notifications: %s",
		Amharic: "✅ ማሳወቂያዎች: %s",
	},
	UpdateLocation: {
		English: "📍 <b>Update Location</b>\n\nShare your current location or choose sub-city.",
		Amharic: "📍 <b>አዲስ አካባቢ አስገባ</b>\n\nአሁን አካባቢህን ላክ ወይም ንኡስ ከተማ ምረጥ።",
	},
	LocationUpdated: {
		English: "✅ Location updated",
		Amharic: "✅ አካባቢ ተዘምኗል",
	},
	UpdateBio: {
		English: "📝 Send your new bio (under 500 characters).",
		Amharic: "📝 አዲስ መግለጫህን ላክ (ከ 500 ፊደላት በታች)።",
	},
	BioUpdated: {
		English: "✅ Bio updated",
		Amharic: "✅ መግለጫ ተዘምኗል",
	},
	UpdateInterests: {
		English: "🎯 <b>Edit your interests</b>\n\nToggle below and press 'Done' when finished.",
		Amharic: "🎯 <b>ፍላጎቶችህን አስተካክል</b>\n\nከታች ምረጥ እና ሲጨርስ 'ተጠናቅቋል' ይጫኑ።",
	},
	InterestsUpdated: {
		English: "✅ Interests updated",
		Amharic: "✅ ፍላጎቶች ተዘምነዋል",
	},
	Cancelled: {
		English: "Cancelled.",
		Amharic: "ተሰርዟል።",
	},
	Help: {
		English: "🆘 <b>Help & Safety</b>\n\n<b>Main Commands:</b>\n/start - Main menu\n/help - This message\n/safety - Safety tips\n/cancel - Cancel the current step\n\n<b>To Report:</b>\nClick 'Report' button on any profile to report a user.",
		Amharic: "🆘 <b>እገዛ እና ደህንነት</b>\n\n<b>ዋና ትዕዛዞች፦</b>\n/start - ዋና ገጽ\n/help - ይህን መልዕክት\n/safety - ደህንነት ምክሮች\n/cancel - የአሁኑን ደረጃ ሰርዝ\n\n<b>ለሪፖርት፦</b>\nአንድን ሰው ለሪፖርት ማድረግ ከፈለጉ በመገለጫው ላይ 'ሪፖርት' የሚለውን ይጫኑ።",
	},
	Safety: {
		English: "🛡️ <b>Safety Tips for Dating in Addis</b>\n\n✅ <b>Do:</b>\n• Meet first time in coffee shops or malls\n• Ask to bring a friend along\n• Meet during daytime in well-lit areas\n\n❌ <b>Don't:</b>\n• Give out home address\n• Go to remote locations\n\n🔔 Report any suspicious behavior immediately.",
		Amharic: "🛡️ <b>ደህንነት ምክሮች</b>\n\n✅ <b>የሚያደርጉት፦</b>\n• ለመጀመሪያ ጊዜ በቡና ቤት ወይም ማል ውስጥ ተገናኝ\n• አጋር ወዳጅ ይዘው መምጣትን ይጠይቁ\n• በቀን እና በብሩህ ቦታ ተገናኝ\n\n❌ <b>የማትደርጉት፦</b>\n• የቤት አድራሻ አትስጡ\n\n🔔 ማንኛውም ጠያቂ ባህሪ ወዲያውኑ ሪፖርት ያድርጉ።",
	},
	NotSet:       {English: "Not set", Amharic: "አልተዘጋጀም"},
	WordOn:       {English: "On", Amharic: "አንብ"},
	WordOff:      {English: "Off", Amharic: "ጠፋ"},
	LanguageName: {English: "English", Amharic: "አማርኛ"},

	BtnMale:          {English: "Male 👨", Amharic: "ወንድ 👨"},
	BtnFemale:        {English: "Female 👩", Amharic: "ሴት 👩"},
	BtnOther:         {English: "Other", Amharic: "ሌላ"},
	BtnPrefMale:      {English: "Men", Amharic: "ወንዶች"},
	BtnPrefFemale:    {English: "Women", Amharic: "ሴቶች"},
	BtnPrefBoth:      {English: "Both 🤝", Amharic: "ሁለቱም 🤝"},
	BtnShareLocation: {English: "📍 Share Current Location", Amharic: "📍 አሁን አካባቢ ላክ"},
	BtnChooseZone:    {English: "🏙 Choose Sub-City", Amharic: "🏙 ንኡስ ከተማ ምረጥ"},
	BtnDone:          {English: "✅ Done", Amharic: "✅ ተጠናቅቋል"},
	BtnSkip:          {English: "Skip", Amharic: "እለፍ"},
	BtnCancel:        {English: "✖️ Cancel", Amharic: "✖️ ሰርዝ"},
	BtnLike:          {English: "👍 Like", Amharic: "👍 አስተያየት"},
	BtnDislike:       {English: "👎 Dislike", Amharic: "👎 አልወደውም"},
	BtnReport:        {English: "⚠️ Report", Amharic: "⚠️ ሪፖርት"},
	BtnBrowse:        {English: "👀 Browse People", Amharic: "👀 ሰዎችን ይመልከቱ"},
	BtnMatches:       {English: "💌 My Matches", Amharic: "💌 ተመሳሳይ ሰዎች"},
	BtnSettings:      {English: "⚙️ Settings", Amharic: "⚙️ ማስተካከያዎች"},
	BtnHelp:          {English: "🆘 Help", Amharic: "🆘 እገዛ"},
	BtnMore:          {English: "➡️ More", Amharic: "➡️ ተጨማሪ"},
	BtnChangeLang:    {English: "🌍 Change Language", Amharic: "🌍 ቋንቋ ቀይር"},
	BtnUpdateLoc:     {English: "📍 Update Location", Amharic: "📍 አካባቢ አዘምን"},
	BtnEditBio:       {English: "📝 Edit Bio", Amharic: "📝 መግለጫ አስተካክል"},
	BtnEditInterests: {English: "🎯 Edit Interests", Amharic: "🎯 ፍላጎቶች አስተካክል"},
	BtnStealth:       {English: "👁️ Toggle Stealth Mode", Amharic: "👁️ ስልኬን ቀይር"},
	BtnNotify:        {English: "🔔 Notifications", Amharic: "🔔 ማሳወቂያዎች"},
	BtnBack:          {English: "↩️ Back to Main", Amharic: "↩️ ወደ ዋና ገጽ"},
}
