package discovery

// curated lists high-value migration candidates used when the live API is
// unreachable. The trailing entries already exist on the destination chain
// and are kept for contrast in scan output.
var curated = []Token{
	{Symbol: "ONDO", Name: "Ondo Finance", Address: "0xfAbA6f8e4a5E8Ab82F62fe7C39859FA577269BE3"},
	{Symbol: "AAVE", Name: "Aave", Address: "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9"},
	{Symbol: "UNI", Name: "Uniswap", Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"},
	{Symbol: "LINK", Name: "Chainlink", Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA"},
	{Symbol: "MKR", Name: "Maker", Address: "0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2"},
	{Symbol: "LDO", Name: "Lido DAO", Address: "0x5A98FcBEA516Cf06857215779Fd812CA3beF1B32"},
	{Symbol: "CRV", Name: "Curve DAO", Address: "0xD533a949740bb3306d119CC777fa900bA034cd52"},
	{Symbol: "APE", Name: "ApeCoin", Address: "0x4d224452801ACEd8B2F0aebE155379bb5D594381"},
	{Symbol: "COMP", Name: "Compound", Address: "0xc00e94Cb662C3520282E6f5717214004A7f26888"},
	{Symbol: "SNX", Name: "Synthetix", Address: "0xC011a73ee8576Fb46F5E1c5751cA3B9Fe0af2a6F"},
	{Symbol: "ENS", Name: "Ethereum Name Service", Address: "0xC18360217D8F7Ab5e7c516566761Ea12Ce7F9D72"},
	{Symbol: "DYDX", Name: "dYdX", Address: "0x92D6C1e31e14520e676a687F0a93788B716BEff5"},
	{Symbol: "PENDLE", Name: "Pendle", Address: "0x808507121B80c02388fAd14726482e061B8da827"},
	{Symbol: "RPL", Name: "Rocket Pool", Address: "0xD33526068D116cE69F19A9ee46F0bd304F21A51f"},
	{Symbol: "FXS", Name: "Frax Share", Address: "0x3432B6A60D23Ca0dFCa7761B7ab56459D9C964D0"},
	{Symbol: "BAL", Name: "Balancer", Address: "0xba100000625a3754423978a60c9317c58a424e3D"},
	{Symbol: "GRT", Name: "The Graph", Address: "0xc944E90C64B2c07662A292be6244BDf05Cda44a7"},
	{Symbol: "1INCH", Name: "1inch", Address: "0x111111111117dC0aa78b770fA6A738034120C302"},
	{Symbol: "SUSHI", Name: "SushiSwap", Address: "0x6B3595068778DD592e39A122f4f5a5cF09C90fE2"},
	{Symbol: "YFI", Name: "yearn.finance", Address: "0x0bc529c00C6401aEF6D220BE8C6Ea1667F6Ad93e"},
	{Symbol: "ANKR", Name: "Ankr", Address: "0x8290333ceF9e6D528dD5618Fb97a76f268f3EDD4"},
	{Symbol: "BLUR", Name: "Blur", Address: "0x5283D291DBCF85356A21bA090E6db59121208b44"},
	{Symbol: "CVX", Name: "Convex Finance", Address: "0x4e3FBD56CD56c3e72c1403e103b45Db9da5B9D2B"},
	{Symbol: "LQTY", Name: "Liquity", Address: "0x6DEA81C8171D0bA574754EF6F8b412F2Ed88c54D"},
	{Symbol: "CELR", Name: "Celer Network", Address: "0x4F9254C83EB525f9FCf346490bbb3ed28a81C667"},
	{Symbol: "MASK", Name: "Mask Network", Address: "0x69af81e73A73B40adF4f3d4223Cd9b1ECE623074"},
	{Symbol: "BAND", Name: "Band Protocol", Address: "0xBA11D00c5f74255f56a5E366F4F77f5A186d7f55"},
	{Symbol: "AUDIO", Name: "Audius", Address: "0x18aAA7115705e8be94bfFEBDE57Af9BFc265B998"},
	{Symbol: "NMR", Name: "Numeraire", Address: "0x1776e1F26f98b1A5dF9cD347953a26dd3Cb46671"},
	{Symbol: "PERP", Name: "Perpetual Protocol", Address: "0xbC396689893D065F41bc2C6EcbeE5e0085233447"},
	{Symbol: "SPELL", Name: "Spell Token", Address: "0x090185f2135308BaD17527004364eBcC2D37e5F6"},
	{Symbol: "ALCX", Name: "Alchemix", Address: "0xdBdb4d16EdA451D0503b854CF79D55697F90c8DF"},
	{Symbol: "REN", Name: "Ren", Address: "0x408e41876cCCDC0F92210600ef50372656052a38"},
	{Symbol: "BADGER", Name: "Badger DAO", Address: "0x3472A5A71965499acd81997a54BBA8D852C6E53d"},
	{Symbol: "MPL", Name: "Maple Finance", Address: "0x33349B282065b0284d756F0577FB39c158F935e6"},
	{Symbol: "POND", Name: "Marlin", Address: "0x57B946008913B82E4dF85f501cbAeD910e58D26C"},
	{Symbol: "TRIBE", Name: "Tribe", Address: "0xc7283b66Eb1EB5FB86327f08e1B5816b0720212B"},
	{Symbol: "LOOKS", Name: "LooksRare", Address: "0xf4d2888d29D722226FafA5d9B24F9164c092421E"},
	{Symbol: "HIGH", Name: "Highstreet", Address: "0x71Ab77b7dbB4fa7e017BC15090b2163221420282"},
	{Symbol: "AURA", Name: "Aura Finance", Address: "0xC0c293ce456fF0ED870ADd98a0828Dd4d2903DBF"},
	{Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
	{Symbol: "USDT", Name: "Tether", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"},
	{Symbol: "DAI", Name: "Dai", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"},
	{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
	{Symbol: "WBTC", Name: "Wrapped Bitcoin", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"},
}

// CuratedFallback returns up to limit curated candidates with synthetic
// market cap ranks assigned by list position.
func CuratedFallback(limit int) []Token {
	n := limit
	if n > len(curated) {
		n = len(curated)
	}
	if n < 0 {
		n = 0
	}

	out := make([]Token, n)
	for i := 0; i < n; i++ {
		out[i] = curated[i]
		out[i].MarketCapRank = uint32(i + 1)
	}
	return out
}
