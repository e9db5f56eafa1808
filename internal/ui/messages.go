package ui

import "strings"

// Catalog holds every user-facing dashboard string for one language.
type Catalog struct {
	Loading      string
	Connecting   string
	Reconnecting string

	WelcomeTitle string
	WelcomeHint  string

	WrongNetwork string // %s = expected network label

	ActivateTitle    string
	ActivateBlurb    string // %s %s = fee, currency
	ReferrerPrompt   string
	ReferrerInvalid  string // %s = currency
	ActivateButton   string // %s %s = fee, currency
	Activating       string
	TxSent           string
	ActivateFailed   string
	NotActivated     string
	TxReverted       string
	Confirmed        string
	DashboardTitle   string
	StatusActive     string
	Power            string // %s = mining power
	Direct           string // %s = count
	Indirect         string // %s = count
	L1Estimate       string // %s %s = amount, currency
	L2Note           string
	PendingLabel     string
	ClaimButton      string
	Claiming         string
	ClaimFailed      string
	TokenBalance     string // %s = symbol
	InviteTitle      string
	InviteBlurb      string
	Copy             string
	Copied           string
	CopyFailed       string
	NoSigner         string
	Disconnect       string
	KeysActivation   string
	KeysDashboard    string
	KeysDisconnected string
}

var catalogs = map[string]Catalog{
	"zh": {
		Loading:      "正在加载DApp...",
		Connecting:   "正在连接钱包...",
		Reconnecting: "正在重新连接钱包...",

		WelcomeTitle: "欢迎来到 MMT 挖矿 DApp",
		WelcomeHint:  "请先连接你的钱包以激活挖矿。",

		WrongNetwork: "请切换到 %s！",

		ActivateTitle:    "激活挖矿",
		ActivateBlurb:    "支付 %s %s 以永久激活你的挖矿账户。",
		ReferrerPrompt:   "输入推荐人地址 (或留空)",
		ReferrerInvalid:  "请输入一个有效的 %s 地址",
		ActivateButton:   "支付 %s %s 激活",
		Activating:       "正在激活...",
		TxSent:           "交易已发送:",
		ActivateFailed:   "激活失败:",
		NotActivated:     "推荐人未激活！",
		TxReverted:       "交易已回滚",
		Confirmed:        "交易已确认",
		DashboardTitle:   "挖矿控制台",
		StatusActive:     "状态: 已激活",
		Power:            "总算力: %s P",
		Direct:           "直接下级: %s 人",
		Indirect:         "间接下级: %s 人",
		L1Estimate:       "预估 L1 收益: %s %s",
		L2Note:           "(L2 收益被合约自动秒结，此处不统计)",
		PendingLabel:     "待领取 MMT:",
		ClaimButton:      "领取 MMT 收益",
		Claiming:         "正在领取...",
		ClaimFailed:      "领取失败:",
		TokenBalance:     "钱包 %s 余额:",
		InviteTitle:      "邀请好友",
		InviteBlurb:      "复制你的钱包地址分享给好友。他们激活时使用你的地址作为推荐人，你将获得算力提升和 tBNB 奖励！",
		Copy:             "复制",
		Copied:           "已复制!",
		CopyFailed:       "复制失败",
		NoSigner:         "钱包无法签名",
		Disconnect:       "断开连接",
		KeysActivation:   "[ enter ] 激活   [ ctrl+d ] 断开   [ ctrl+s ] 切换钱包   [ esc ] 退出",
		KeysDashboard:    "[ c ] 领取   [ y ] 复制地址   [ o ] 浏览器   [ d ] 断开   [ s ] 切换钱包   [ q ] 退出",
		KeysDisconnected: "[ c ] 连接钱包   [ q ] 退出",
	},
	"en": {
		Loading:      "Loading…",
		Connecting:   "Connecting wallet…",
		Reconnecting: "Reconnecting wallet…",

		WelcomeTitle: "Welcome to MMT Mining",
		WelcomeHint:  "Connect your wallet to activate mining.",

		WrongNetwork: "Please switch to %s!",

		ActivateTitle:    "Activate mining",
		ActivateBlurb:    "Pay %s %s to permanently activate your mining account.",
		ReferrerPrompt:   "Referrer address (or leave blank)",
		ReferrerInvalid:  "Enter a valid %s address",
		ActivateButton:   "Pay %s %s to activate",
		Activating:       "Activating…",
		TxSent:           "Transaction sent:",
		ActivateFailed:   "Activation failed:",
		NotActivated:     "Referrer is not activated!",
		TxReverted:       "transaction reverted",
		Confirmed:        "Transaction confirmed",
		DashboardTitle:   "Mining console",
		StatusActive:     "Status: activated",
		Power:            "Mining power: %s P",
		Direct:           "Direct referrals: %s",
		Indirect:         "Indirect referrals: %s",
		L1Estimate:       "Estimated L1 reward: %s %s",
		L2Note:           "(L2 rewards are settled instantly by the contract and not counted here)",
		PendingLabel:     "Pending MMT:",
		ClaimButton:      "Claim MMT rewards",
		Claiming:         "Claiming…",
		ClaimFailed:      "Claim failed:",
		TokenBalance:     "Wallet %s balance:",
		InviteTitle:      "Invite friends",
		InviteBlurb:      "Share your wallet address. When friends activate with it as referrer you gain mining power and tBNB rewards!",
		Copy:             "Copy",
		Copied:           "Copied!",
		CopyFailed:       "Copy failed",
		NoSigner:         "wallet cannot sign",
		Disconnect:       "Disconnect",
		KeysActivation:   "[ enter ] activate   [ ctrl+d ] disconnect   [ ctrl+s ] switch wallet   [ esc ] quit",
		KeysDashboard:    "[ c ] claim   [ y ] copy address   [ o ] explorer   [ d ] disconnect   [ s ] switch wallet   [ q ] quit",
		KeysDisconnected: "[ c ] connect wallet   [ q ] quit",
	},
}

// CatalogFor returns the catalog for lang, falling back to English.
func CatalogFor(lang string) Catalog {
	if c, ok := catalogs[strings.ToLower(lang)]; ok {
		return c
	}
	return catalogs["en"]
}

// Languages lists the supported catalog codes.
func Languages() []string { return []string{"en", "zh"} }
